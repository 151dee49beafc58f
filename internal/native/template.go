package native

import (
	"fmt"
	"strings"
)

// ChatTemplate renders chat messages into the raw prompt a model was trained on.
type ChatTemplate struct {
	Name string
	// Stop lists the end-of-turn markers generation should stop at.
	Stop   []string
	render func(buf *strings.Builder, msgs []ChatMessage)
}

// Render formats msgs and leaves the assistant turn open for completion.
func (t ChatTemplate) Render(msgs []ChatMessage) string {
	var buf strings.Builder
	t.render(&buf, msgs)
	return buf.String()
}

var templates = map[string]ChatTemplate{
	"chatml": {
		Name: "chatml",
		Stop: []string{"<|im_end|>"},
		render: func(buf *strings.Builder, msgs []ChatMessage) {
			for _, m := range msgs {
				buf.WriteString("<|im_start|>")
				buf.WriteString(m.Role)
				buf.WriteString("\n")
				buf.WriteString(m.Content)
				buf.WriteString("<|im_end|>\n")
			}
			buf.WriteString("<|im_start|>assistant\n")
		},
	},
	"llama3": {
		Name: "llama3",
		Stop: []string{"<|eot_id|>"},
		render: func(buf *strings.Builder, msgs []ChatMessage) {
			buf.WriteString("<|begin_of_text|>")
			for _, m := range msgs {
				buf.WriteString("<|start_header_id|>")
				buf.WriteString(m.Role)
				buf.WriteString("<|end_header_id|>\n\n")
				buf.WriteString(m.Content)
				buf.WriteString("<|eot_id|>")
			}
			buf.WriteString("<|start_header_id|>assistant<|end_header_id|>\n\n")
		},
	},
	"alpaca": {
		Name: "alpaca",
		Stop: []string{"### Instruction:"},
		render: func(buf *strings.Builder, msgs []ChatMessage) {
			for _, m := range msgs {
				switch m.Role {
				case RoleSystem:
					buf.WriteString(m.Content)
					buf.WriteString("\n\n")
				case RoleAssistant:
					buf.WriteString("### Response:\n")
					buf.WriteString(m.Content)
					buf.WriteString("\n\n")
				default:
					buf.WriteString("### Instruction:\n")
					buf.WriteString(m.Content)
					buf.WriteString("\n\n")
				}
			}
			buf.WriteString("### Response:\n")
		},
	},
}

// LookupTemplate returns the named chat template.
func LookupTemplate(name string) (ChatTemplate, error) {
	t, ok := templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ChatTemplate{}, fmt.Errorf("unknown chat_format %q", name)
	}
	return t, nil
}
