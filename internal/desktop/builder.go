package desktop

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

// SetupFunc runs once after plugins are initialised and before the event loop.
// An error aborts startup.
type SetupFunc func(app *App) error

// Builder assembles the application: plugins, commands, bindings and setup
// callbacks. Run starts it; a Builder runs at most once.
type Builder struct {
	cfg *config.Context
	log *logging.Logger

	plugins []Plugin
	table   *CommandTable
	binds   []interface{}
	setups  []SetupFunc
	err     error

	mu  sync.Mutex
	ran bool
}

// NewBuilder creates a builder for the given static context.
func NewBuilder(cfg *config.Context, log *logging.Logger) *Builder {
	return &Builder{
		cfg:   cfg,
		log:   log,
		table: NewCommandTable(),
	}
}

// Plugin registers p. Plugins initialise in registration order.
func (b *Builder) Plugin(p Plugin) *Builder {
	for _, existing := range b.plugins {
		if existing.Name() == p.Name() {
			if b.err == nil {
				b.err = fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
			}
			return b
		}
	}
	b.plugins = append(b.plugins, p)
	return b
}

// InvokeHandler registers the command table reachable from the front-end.
func (b *Builder) InvokeHandler(table *CommandTable) *Builder {
	b.table = table
	return b
}

// Bind exposes additional values' exported methods to the front-end.
func (b *Builder) Bind(values ...interface{}) *Builder {
	b.binds = append(b.binds, values...)
	return b
}

// Setup registers a callback run after plugin initialisation.
func (b *Builder) Setup(fn SetupFunc) *Builder {
	b.setups = append(b.setups, fn)
	return b
}

// Run initialises plugins, runs setup callbacks and hands control to host.
// It blocks until the event loop exits. Any error is terminal.
func (b *Builder) Run(host Host) error {
	b.mu.Lock()
	if b.ran {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}
	b.ran = true
	b.mu.Unlock()

	if b.err != nil {
		return b.err
	}

	app := NewApp(b.cfg, host, b.log)

	for i, p := range b.plugins {
		b.log.With(zap.String("plugin", p.Name())).Debug("initialising plugin")
		if err := p.Init(app); err != nil {
			b.shutdownPlugins(context.Background(), b.plugins[:i])
			return fmt.Errorf("init plugin %s: %w", p.Name(), err)
		}
	}

	for _, fn := range b.setups {
		if err := fn(app); err != nil {
			b.shutdownPlugins(context.Background(), b.plugins)
			return fmt.Errorf("setup: %w", err)
		}
	}

	table := b.table
	if table == nil {
		table = NewCommandTable()
	}
	bind := []interface{}{NewBridge(app, table)}
	bind = append(bind, b.binds...)
	for _, p := range b.plugins {
		if v := p.Bind(); v != nil {
			bind = append(bind, v)
		}
	}

	b.log.With(zap.Strings("commands", table.Names()), zap.String("version", Version)).Info("starting event loop")

	err := host.Run(HostOptions{
		Context:    b.cfg,
		Logger:     b.log,
		Bind:       bind,
		OnStartup:  app.Startup,
		OnDomReady: app.DomReady,
		OnShutdown: func(ctx context.Context) {
			b.shutdownPlugins(ctx, b.plugins)
		},
	})
	if err != nil {
		return fmt.Errorf("run host: %w", err)
	}
	return nil
}

// shutdownPlugins stops plugins in reverse order. Errors are logged, not returned.
func (b *Builder) shutdownPlugins(ctx context.Context, plugins []Plugin) {
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			b.log.With(zap.String("plugin", p.Name()), zap.Error(err)).Warning("plugin shutdown failed")
		}
	}
}

// ShowMainWindow is the standard setup callback: it requires the "main"
// window to be declared and requests it become visible unless it is declared
// with visible = false. A failure to show is logged and does not stop startup.
func ShowMainWindow(app *App) error {
	w, err := app.Window(MainWindowLabel)
	if err != nil {
		return err
	}
	if !w.Config().IsVisible() {
		app.Logger().With(zap.String("window", w.Label())).Debug("window starts hidden")
		return nil
	}
	if err := w.Show(); err != nil {
		app.Logger().With(zap.String("window", w.Label()), zap.Error(err)).Warning("window could not be shown")
	}
	return nil
}
