package desktop

import (
	"context"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

// HostOptions is everything the host needs to run the event loop.
type HostOptions struct {
	Context *config.Context
	Logger  *logging.Logger
	Bind    []interface{}

	OnStartup  func(ctx context.Context)
	OnDomReady func(ctx context.Context)
	OnShutdown func(ctx context.Context)
}

// Host owns the native window, the webview and the event loop.
type Host interface {
	// Run blocks for the lifetime of the event loop.
	Run(opts HostOptions) error
	ShowWindow(ctx context.Context, w config.WindowConfig) error
	Emit(ctx context.Context, event string, data ...interface{})
	OpenURL(ctx context.Context, url string) error
	Quit(ctx context.Context)
}
