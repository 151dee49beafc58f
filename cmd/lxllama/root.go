package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lxllama/internal/config"
	"lxllama/internal/httpapi"
	"lxllama/internal/llamacpp"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	modelID    string
	maxWorkers int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	root := &cobra.Command{
		Use:           "lxllama",
		Short:         "Batch inference over local GGUF models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&rf.configPath, "config", os.Getenv("LXLLAMA_CONFIG"), "Path to a YAML, JSON or TOML config file")
	pf.StringVar(&rf.logLevel, "log-level", envOr("LXLLAMA_LOG_LEVEL", "info"), "Log level: debug|info|warn|error|off")
	pf.StringVar(&rf.modelID, "model", os.Getenv("LXLLAMA_MODEL"), "Model id, e.g. hf:<repo_id>[:<filename glob>]")
	pf.IntVar(&rf.maxWorkers, "max-workers", 1, "Prompts processed concurrently per batch (1 = sequential)")
	pf.BoolVar(&rf.verbose, "verbose", false, "Keep llama.cpp native logging enabled")

	root.AddCommand(newInferCmd(rf), newServeCmd(rf), newModelsCmd(rf))
	return root
}

// loadConfig reads the config file (if any) and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command, rf *rootFlags) (config.Config, error) {
	var cfg config.Config
	if rf.configPath != "" {
		c, err := config.Load(rf.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	flags := cmd.Flags()
	if flags.Changed("model") || cfg.ModelID == "" {
		cfg.ModelID = rf.modelID
	}
	if flags.Changed("max-workers") || cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = rf.maxWorkers
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rf.verbose
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = rf.logLevel
	}
	return cfg, nil
}

// setupLogging builds the process logger and hands it to the packages that log.
func setupLogging(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		lvl = zerolog.Disabled
	case "":
	default:
		l, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
		}
		lvl = l
	}
	log := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	llamacpp.SetLogger(log)
	httpapi.SetLogger(log)
	return log, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
