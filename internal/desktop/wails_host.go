package desktop

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
)

// Window backgrounds used when the main window declares none.
var themeBackgrounds = map[Theme]options.RGBA{
	ThemeDark:  {R: 27, G: 38, B: 54, A: 1},
	ThemeLight: {R: 246, G: 248, B: 250, A: 1},
}

// WailsHost runs the app on the Wails v2 runtime. Wails drives a single native
// window, configured from the "main" window entry.
type WailsHost struct {
	assets fs.FS
	theme  func() Theme
}

// NewWailsHost creates a host serving the bundled front-end from assets.
func NewWailsHost(assets fs.FS) *WailsHost {
	return &WailsHost{assets: assets, theme: DetectTheme}
}

// Run starts the Wails event loop. It blocks until the window closes.
func (h *WailsHost) Run(opts HostOptions) error {
	return wails.Run(h.appOptions(opts))
}

// appOptions maps the static context onto the Wails options. Chrome follows
// the detected OS theme.
func (h *WailsHost) appOptions(opts HostOptions) *options.App {
	ctx := opts.Context
	main, ok := ctx.Window(MainWindowLabel)
	if !ok && len(ctx.Windows) > 0 {
		main = ctx.Windows[0]
	}
	if len(ctx.Windows) > 1 {
		opts.Logger.With(zap.Int("declared", len(ctx.Windows))).
			Warning("only one native window is supported; extra window entries are ignored")
	}

	theme := h.theme()
	background := themeBackgrounds[ThemeDark]
	if bg, ok := themeBackgrounds[theme]; ok {
		background = bg
	}
	if main.Background != "" {
		rgba, err := parseHexColour(main.Background)
		if err != nil {
			opts.Logger.With(zap.Error(err)).Warning("invalid window background, using theme default")
		} else {
			background = *rgba
		}
	}
	opts.Logger.With(zap.String("theme", string(theme))).Debug("window theme")

	appearance, winTheme := mac.NSAppearanceNameDarkAqua, windows.Dark
	if theme == ThemeLight {
		appearance, winTheme = mac.NSAppearanceNameAqua, windows.Light
	}

	level := opts.Logger.WailsLevel()
	return &options.App{
		Title:         main.Title,
		Width:         main.Width,
		Height:        main.Height,
		MinWidth:      main.MinWidth,
		MinHeight:     main.MinHeight,
		DisableResize: !main.IsResizable(),
		// Setup decides when the window becomes visible.
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Assets: h.assets,
		},
		BackgroundColour: &background,
		Mac: &mac.Options{
			Appearance: appearance,
			About: &mac.AboutInfo{
				Title:   ctx.ProductName,
				Message: aboutMessage(ctx.Bundle),
			},
		},
		Windows: &windows.Options{
			Theme: winTheme,
		},
		Linux: &linux.Options{
			ProgramName: ctx.Identifier,
		},
		OnStartup:          opts.OnStartup,
		OnDomReady:         opts.OnDomReady,
		OnShutdown:         opts.OnShutdown,
		Bind:               opts.Bind,
		Logger:             opts.Logger,
		LogLevel:           level,
		LogLevelProduction: level,
	}
}

// aboutMessage is the body of the macOS about panel: version, description
// and copyright, skipping empty parts.
func aboutMessage(b config.BundleConfig) string {
	parts := []string{"Version " + Version}
	for _, p := range []string{b.Description, b.Copyright} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// ShowWindow makes the native window visible. The Wails runtime aborts on an
// invalid context, so that is recovered and reported as an error.
func (h *WailsHost) ShowWindow(ctx context.Context, w config.WindowConfig) (err error) {
	if ctx == nil {
		return ErrNotStarted
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("show window %q: %v", w.Label, r)
		}
	}()
	wailsRuntime.WindowShow(ctx)
	return nil
}

// Emit sends an event to the front-end.
func (h *WailsHost) Emit(ctx context.Context, event string, data ...interface{}) {
	wailsRuntime.EventsEmit(ctx, event, data...)
}

// OpenURL opens url in the system browser.
func (h *WailsHost) OpenURL(ctx context.Context, url string) error {
	if ctx == nil {
		return ErrNotStarted
	}
	wailsRuntime.BrowserOpenURL(ctx, url)
	return nil
}

// Quit stops the event loop.
func (h *WailsHost) Quit(ctx context.Context) {
	wailsRuntime.Quit(ctx)
}

// parseHexColour parses "#rrggbb" into an opaque RGBA.
func parseHexColour(s string) (*options.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("colour %q: %w", s, err)
	}
	return &options.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 1,
	}, nil
}
