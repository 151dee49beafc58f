package httpapi

import (
	"context"
	"errors"
	"time"

	"lxllama/internal/config"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// errShuttingDown cancels batches when the server stops.
var errShuttingDown = errors.New("server shutting down")

// Options configures the router built by NewMux.
type Options struct {
	// MaxBodyBytes bounds JSON request bodies; <= 0 selects DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// InferTimeout bounds one /infer batch; zero disables it.
	InferTimeout time.Duration
	CORS         CORSOptions
	// ShutdownCtx cancels in-flight batches once done. Nil never cancels.
	ShutdownCtx context.Context
}

// CORSOptions is opt-in; without Enabled no CORS middleware is installed.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// OptionsFromConfig maps the server fields of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	timeout := time.Duration(max(cfg.InferTimeoutSeconds, 0)) * time.Second
	return Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		InferTimeout: timeout,
		CORS: CORSOptions{
			Enabled:        cfg.CORSEnabled,
			AllowedOrigins: append([]string(nil), cfg.CORSAllowedOrigins...),
			AllowedMethods: append([]string(nil), cfg.CORSAllowedMethods...),
			AllowedHeaders: append([]string(nil), cfg.CORSAllowedHeaders...),
		},
	}
}

func (o Options) bodyLimit() int64 {
	if o.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return o.MaxBodyBytes
}

func (o Options) shuttingDown() bool {
	return o.ShutdownCtx != nil && o.ShutdownCtx.Err() != nil
}

// batchContext derives the context of one /infer batch. It ends with the
// request, when ShutdownCtx is done, or after InferTimeout.
func (o Options) batchContext(req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	stop := func() bool { return false }
	if o.ShutdownCtx != nil {
		stop = context.AfterFunc(o.ShutdownCtx, func() { cancel(errShuttingDown) })
	}
	tcancel := context.CancelFunc(func() {})
	if o.InferTimeout > 0 {
		ctx, tcancel = context.WithTimeout(ctx, o.InferTimeout)
	}
	return ctx, func() {
		tcancel()
		stop()
		cancel(nil)
	}
}
