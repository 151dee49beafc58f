package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lxllama/internal/config"
	"lxllama/internal/provider"
	"lxllama/pkg/types"
)

// upperModel answers every prompt with its upper-cased text.
type upperModel struct{ closed bool }

func (m *upperModel) Infer(ctx context.Context, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error) {
	out := make([][]types.ScoredOutput, len(prompts))
	for i, p := range prompts {
		out[i] = []types.ScoredOutput{{Score: 1, Output: strings.ToUpper(p)}}
	}
	return out, nil
}

func (m *upperModel) Close() error {
	m.closed = true
	return nil
}

func init() {
	provider.MustRegister(`^test:`, 100, func(modelID string, cfg provider.Config) (provider.LanguageModel, error) {
		if modelID == "test:fail" {
			return nil, errors.New("cannot load")
		}
		return &upperModel{}, nil
	})
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInferCmd_Args(t *testing.T) {
	out, err := execute(t, "", "infer", "--model", "test:upper", "--log-level", "off", "hello", "world")
	require.NoError(t, err)
	var resp types.InferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "test:upper", resp.Model)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "HELLO", resp.Results[0][0].Output)
	assert.Equal(t, "WORLD", resp.Results[1][0].Output)
}

func TestInferCmd_Stdin(t *testing.T) {
	out, err := execute(t, "one\n\n two \n", "infer", "--model", "test:upper", "--log-level", "off")
	require.NoError(t, err)
	var resp types.InferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "TWO", resp.Results[1][0].Output)
}

func TestInferCmd_Errors(t *testing.T) {
	_, err := execute(t, "", "infer", "--log-level", "off", "x")
	assert.ErrorContains(t, err, "no model")

	_, err = execute(t, "", "infer", "--model", "gpt-4o", "--log-level", "off", "x")
	assert.True(t, provider.IsNoProvider(err), "%v", err)

	_, err = execute(t, "", "infer", "--model", "test:upper", "--log-level", "off", "--options", "{", "x")
	assert.ErrorContains(t, err, "parse --options")

	_, err = execute(t, "", "infer", "--model", "test:upper", "--log-level", "loud", "x")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestModelsCmd_JSON(t *testing.T) {
	cache := t.TempDir()
	gguf := filepath.Join(cache, "models--org--repo", "snapshots", "rev", "model.Q4_K_M.gguf")
	require.NoError(t, os.MkdirAll(filepath.Dir(gguf), 0o755))
	require.NoError(t, os.WriteFile(gguf, make([]byte, 32), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "lxllama.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model_options:\n  cache_dir: "+cache+"\n"), 0o644))

	out, err := execute(t, "", "models", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var resp types.ModelsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Models, 1)
	assert.Equal(t, "hf:org/repo:model.Q4_K_M.gguf", resp.Models[0].ID)

	out, err = execute(t, "", "models", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "hf:org/repo:model.Q4_K_M.gguf")
	assert.Contains(t, out, "32 B")
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "lxllama.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model_id = \"hf:a/b\"\nmax_workers = 4\nverbose = true\n"), 0o644))

	newCmd := func() (*cobra.Command, *rootFlags) {
		rf := &rootFlags{configPath: cfgPath}
		c := &cobra.Command{Use: "x"}
		c.Flags().StringVar(&rf.modelID, "model", "", "")
		c.Flags().IntVar(&rf.maxWorkers, "max-workers", 1, "")
		c.Flags().BoolVar(&rf.verbose, "verbose", false, "")
		c.Flags().StringVar(&rf.logLevel, "log-level", "info", "")
		return c, rf
	}

	c, rf := newCmd()
	require.NoError(t, c.ParseFlags(nil))
	cfg, err := loadConfig(c, rf)
	require.NoError(t, err)
	assert.Equal(t, "hf:a/b", cfg.ModelID)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "info", cfg.LogLevel)

	c, rf = newCmd()
	require.NoError(t, c.ParseFlags([]string{"--model", "hf:c/d", "--max-workers", "2", "--verbose=false"}))
	cfg, err = loadConfig(c, rf)
	require.NoError(t, err)
	assert.Equal(t, "hf:c/d", cfg.ModelID)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.False(t, cfg.Verbose)
}

func TestModelService_Lifecycle(t *testing.T) {
	svc := newModelService(config.Config{ModelID: "test:upper"}, zerolog.Nop())
	assert.False(t, svc.Ready())
	_, err := svc.Infer(context.Background(), []string{"a"}, nil)
	var se statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 503, se.StatusCode())

	require.NoError(t, svc.Load())
	assert.True(t, svc.Ready())
	out, err := svc.Infer(context.Background(), []string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", out[0][0].Output)

	m := svc.model.(*upperModel)
	svc.Close()
	assert.True(t, m.closed)
	assert.False(t, svc.Ready())
}

func TestModelService_LoadFailure(t *testing.T) {
	svc := newModelService(config.Config{ModelID: "test:fail"}, zerolog.Nop())
	require.Error(t, svc.Load())
	assert.False(t, svc.Ready())
	_, err := svc.Infer(context.Background(), []string{"a"}, nil)
	assert.ErrorContains(t, err, "cannot load")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KiB", humanBytes(1536))
	assert.Equal(t, "4.0 GiB", humanBytes(4<<30))
}
