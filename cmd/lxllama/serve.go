package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lxllama/internal/httpapi"
)

type serveFlags struct {
	addr         string
	maxBodyBytes int64
	inferTimeout int64
	corsEnabled  bool
	corsOrigins  string
	corsMethods  string
	corsHeaders  string
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	sf := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve batch inference over HTTP",
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

			// Flags override file values only when set explicitly.
			fl := cmd.Flags()
			if fl.Changed("addr") || cfg.Addr == "" {
				cfg.Addr = sf.addr
			}
			if fl.Changed("max-body-bytes") {
				cfg.MaxBodyBytes = sf.maxBodyBytes
			}
			if fl.Changed("infer-timeout") {
				cfg.InferTimeoutSeconds = sf.inferTimeout
			}
			if fl.Changed("cors-enabled") {
				cfg.CORSEnabled = sf.corsEnabled
			}
			if fl.Changed("cors-origins") {
				cfg.CORSAllowedOrigins = splitCSV(sf.corsOrigins)
			}
			if fl.Changed("cors-methods") || len(cfg.CORSAllowedMethods) == 0 {
				cfg.CORSAllowedMethods = splitCSV(sf.corsMethods)
			}
			if fl.Changed("cors-headers") || len(cfg.CORSAllowedHeaders) == 0 {
				cfg.CORSAllowedHeaders = splitCSV(sf.corsHeaders)
			}
			httpapi.SetDefaultLogLevel(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			opts := httpapi.OptionsFromConfig(cfg)
			opts.ShutdownCtx = ctx

			svc := newModelService(cfg, log)
			defer svc.Close()
			go func() { _ = svc.Load() }()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(svc, opts),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("model", cfg.ModelID).Int("max_workers", cfg.MaxWorkers).Msg("lxllama listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			// Graceful shutdown (Ctrl+C / SIGTERM)
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sf.addr, "addr", envOr("LXLLAMA_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	f.Int64Var(&sf.maxBodyBytes, "max-body-bytes", 1<<20, "Maximum request body size in bytes")
	f.Int64Var(&sf.inferTimeout, "infer-timeout", 0, "Per-request inference timeout in seconds (0 disables)")
	f.BoolVar(&sf.corsEnabled, "cors-enabled", false, "Enable CORS")
	f.StringVar(&sf.corsOrigins, "cors-origins", "", "Comma-separated allowed origins")
	f.StringVar(&sf.corsMethods, "cors-methods", "GET,POST,OPTIONS", "Comma-separated allowed methods")
	f.StringVar(&sf.corsHeaders, "cors-headers", "Content-Type,Authorization", "Comma-separated allowed headers")
	return cmd
}
