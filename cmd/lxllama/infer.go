package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lxllama/internal/provider"
	"lxllama/pkg/types"
)

func newInferCmd(rf *rootFlags) *cobra.Command {
	var optsJSON string
	cmd := &cobra.Command{
		Use:   "infer [prompt...]",
		Short: "Run prompts through the model and print JSON results",
		Long:  "Run prompts through the model. With no arguments, or a single \"-\", prompts are read from stdin, one per line.",
		Example: "  lxllama infer --model hf:Qwen/Qwen2.5-0.5B-Instruct-GGUF:*q4_k_m.gguf \"Name three colors.\"\n" +
			"  cat prompts.txt | lxllama infer --max-workers 4",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			if cfg.ModelID == "" {
				return fmt.Errorf("no model: pass --model or set model_id in the config file")
			}
			log, err := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			var opts map[string]any
			if optsJSON != "" {
				if err := json.Unmarshal([]byte(optsJSON), &opts); err != nil {
					return fmt.Errorf("parse --options: %w", err)
				}
			}
			prompts := args
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				if prompts, err = readPrompts(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			model, err := provider.Create(cfg.ModelID, cfg.Provider())
			if err != nil {
				return err
			}
			defer closeModel(model)
			log.Debug().Str("model", cfg.ModelID).Int("prompts", len(prompts)).Msg("infer")

			results, err := model.Infer(ctx, prompts, opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(types.InferResponse{Model: cfg.ModelID, Results: results})
		},
	}
	cmd.Flags().StringVar(&optsJSON, "options", "", `Per-call completion options as JSON, e.g. '{"max_tokens":64}'`)
	return cmd
}

// readPrompts returns the non-blank lines of r.
func readPrompts(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return out, nil
}

func closeModel(m provider.LanguageModel) {
	if c, ok := m.(io.Closer); ok {
		_ = c.Close()
	}
}
