// Package desktop provides the bootstrap and command surface of the NYOWORKS
// desktop app on top of the Wails runtime.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

// Version is set at build time via ldflags
var Version = "0.1.0-dev"

// MainWindowLabel is the logical name of the window shown at startup.
const MainWindowLabel = "main"

// ErrNotStarted is returned by operations that need the host runtime before it is up.
var ErrNotStarted = errors.New("host runtime not started")

// App is the handle plugins and setup callbacks use to reach the running host.
type App struct {
	cfg  *config.Context
	host Host
	log  *logging.Logger

	mu        sync.Mutex
	ctx       context.Context
	domReady  bool
	pending   []config.WindowConfig
	onStartup []func(ctx context.Context)
}

// NewApp creates a new App handle
func NewApp(cfg *config.Context, host Host, log *logging.Logger) *App {
	return &App{cfg: cfg, host: host, log: log}
}

// Startup is called by the host once its runtime is up. The context is saved
// so we can call the runtime methods.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	hooks := a.onStartup
	a.onStartup = nil
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// DomReady is called by the host once the front-end has loaded. Windows whose
// visibility was requested during setup are shown here.
func (a *App) DomReady(ctx context.Context) {
	a.mu.Lock()
	if a.ctx == nil {
		a.ctx = ctx
	}
	a.domReady = true
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, w := range pending {
		if err := a.host.ShowWindow(ctx, w); err != nil {
			a.log.With(zap.String("window", w.Label), zap.Error(err)).Warning("window could not be shown")
		}
	}
}

// OnStartup registers fn to run when the host runtime starts. If it already
// has, fn runs immediately.
func (a *App) OnStartup(fn func(ctx context.Context)) {
	a.mu.Lock()
	ctx := a.ctx
	if ctx == nil {
		a.onStartup = append(a.onStartup, fn)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	fn(ctx)
}

// Context returns the host runtime context, or context.Background before startup.
func (a *App) Context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Config returns the static application context.
func (a *App) Config() *config.Context {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *logging.Logger {
	return a.log
}

// DataDir returns the per-user application data directory.
func (a *App) DataDir() string {
	return a.cfg.DataDir()
}

// Window looks up a declared window by label.
func (a *App) Window(label string) (*Window, error) {
	w, ok := a.cfg.Window(label)
	if !ok {
		return nil, &config.ConfigurationError{
			Field: "windows",
			Err:   fmt.Errorf("%w: %q", ErrWindowNotFound, label),
		}
	}
	return &Window{app: a, cfg: w}, nil
}

// Emit sends an event to the front-end. Events emitted before startup are dropped.
func (a *App) Emit(event string, data ...interface{}) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		a.log.With(zap.String("event", event)).Debug("event dropped before startup")
		return
	}
	a.host.Emit(ctx, event, data...)
}

// OpenURL opens url with the system browser.
func (a *App) OpenURL(url string) error {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		return ErrNotStarted
	}
	return a.host.OpenURL(ctx, url)
}

// Quit asks the host to stop its event loop.
func (a *App) Quit() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx != nil {
		a.host.Quit(ctx)
	}
}

// Window is a declared native window.
type Window struct {
	app *App
	cfg config.WindowConfig
}

// Label returns the logical window name.
func (w *Window) Label() string {
	return w.cfg.Label
}

// Config returns the declared window configuration.
func (w *Window) Config() config.WindowConfig {
	return w.cfg
}

// Show requests the window become visible. Before the front-end has loaded the
// request is deferred and any failure is logged when it is applied.
func (w *Window) Show() error {
	a := w.app
	a.mu.Lock()
	if !a.domReady {
		a.pending = append(a.pending, w.cfg)
		a.mu.Unlock()
		return nil
	}
	ctx := a.ctx
	a.mu.Unlock()
	return a.host.ShowWindow(ctx, w.cfg)
}
