package desktop

import (
	"context"
	"sync"

	"github.com/naimozcan/nyoworks-framework/internal/config"
)

type ctxKey struct{}

type fakeEvent struct {
	name string
	data []interface{}
}

// fakeHost runs the startup hooks synchronously and records calls instead of
// driving a real window.
type fakeHost struct {
	mu      sync.Mutex
	showErr error
	runErr  error
	onLoop  func(opts HostOptions)

	opts    HostOptions
	shown   []string
	events  []fakeEvent
	opened  []string
	loopRan bool
	quit    bool
}

func (h *fakeHost) Run(opts HostOptions) error {
	h.mu.Lock()
	h.opts = opts
	h.mu.Unlock()

	ctx := context.WithValue(context.Background(), ctxKey{}, "wails")
	opts.OnStartup(ctx)
	opts.OnDomReady(ctx)

	h.mu.Lock()
	quit := h.quit
	if !quit {
		h.loopRan = true
	}
	h.mu.Unlock()

	if !quit && h.onLoop != nil {
		h.onLoop(opts)
	}
	opts.OnShutdown(ctx)
	return h.runErr
}

func (h *fakeHost) ShowWindow(ctx context.Context, w config.WindowConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.showErr != nil {
		return h.showErr
	}
	h.shown = append(h.shown, w.Label)
	return nil
}

func (h *fakeHost) Emit(ctx context.Context, event string, data ...interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fakeEvent{name: event, data: data})
}

func (h *fakeHost) OpenURL(ctx context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, url)
	return nil
}

func (h *fakeHost) Quit(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quit = true
}

func testContext(windows ...string) *config.Context {
	cfg := &config.Context{Identifier: "nyoworks-test", ProductName: "NYOWORKS"}
	for _, label := range windows {
		cfg.Windows = append(cfg.Windows, config.WindowConfig{
			Label:  label,
			Title:  "NYOWORKS",
			Width:  config.DefaultWindowWidth,
			Height: config.DefaultWindowHeight,
		})
	}
	return cfg
}
