// Package config loads the static application context embedded in the binary
// and the user settings stored next to the application data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default window dimensions, used when a window entry omits them.
const (
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 768
)

// Context is the static application context generated at build time from app.toml.
type Context struct {
	Identifier  string         `toml:"identifier"`
	ProductName string         `toml:"product_name"`
	Windows     []WindowConfig `toml:"windows"`
	Bundle      BundleConfig   `toml:"bundle"`
	Plugins     PluginsConfig  `toml:"plugins"`
}

// WindowConfig declares a native window by its logical label.
type WindowConfig struct {
	Label      string `toml:"label"`
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	MinWidth   int    `toml:"min_width"`
	MinHeight  int    `toml:"min_height"`
	Resizable  *bool  `toml:"resizable,omitempty"` // nil = resizable
	Visible    *bool  `toml:"visible,omitempty"` // nil = shown at startup
	Background string `toml:"background"` // "#rrggbb"
}

// IsVisible reports whether the window is shown at startup.
func (w WindowConfig) IsVisible() bool {
	return w.Visible == nil || *w.Visible
}

// IsResizable reports whether the window may be resized by the user.
func (w WindowConfig) IsResizable() bool {
	return w.Resizable == nil || *w.Resizable
}

// BundleConfig carries the metadata shown in the about dialog.
type BundleConfig struct {
	Copyright   string `toml:"copyright"`
	Description string `toml:"description"`
}

// PluginsConfig holds per-plugin configuration.
type PluginsConfig struct {
	Shell   ShellConfig   `toml:"shell"`
	Store   StoreConfig   `toml:"store"`
	Updater UpdaterConfig `toml:"updater"`
}

// ShellConfig controls which programs the front-end may run.
type ShellConfig struct {
	// Open allows opening http, https and mailto links in the system browser.
	Open  bool         `toml:"open"`
	Scope []ShellScope `toml:"scope"`
}

// ShellScope allows one program under an alias.
type ShellScope struct {
	Name string `toml:"name"` // alias used by the front-end
	Cmd  string `toml:"cmd"`  // program to execute
	// Args allows caller-supplied arguments. When false the program runs bare.
	Args bool `toml:"args"`
}

// StoreConfig controls the key-value store plugin.
type StoreConfig struct {
	Autosave bool   `toml:"autosave"`
	Dir      string `toml:"dir"` // defaults to <data dir>/stores
}

// UpdaterConfig controls the self-update plugin.
type UpdaterConfig struct {
	Active         bool     `toml:"active"`
	Endpoints      []string `toml:"endpoints"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// ParseContext decodes and validates an app.toml document.
func ParseContext(data []byte) (*Context, error) {
	var ctx Context
	if _, err := toml.Decode(string(data), &ctx); err != nil {
		return nil, &ConfigurationError{Field: "app.toml", Err: err}
	}

	ctx.Identifier = strings.TrimSpace(ctx.Identifier)
	if ctx.Identifier == "" {
		return nil, &ConfigurationError{Field: "identifier", Err: ErrMissingValue}
	}
	if strings.ContainsAny(ctx.Identifier, `/\`) {
		return nil, &ConfigurationError{Field: "identifier", Err: fmt.Errorf("%q must not contain path separators", ctx.Identifier)}
	}
	if strings.TrimSpace(ctx.ProductName) == "" {
		return nil, &ConfigurationError{Field: "product_name", Err: ErrMissingValue}
	}

	seen := make(map[string]bool, len(ctx.Windows))
	for i := range ctx.Windows {
		w := &ctx.Windows[i]
		if w.Label == "" {
			return nil, &ConfigurationError{Field: fmt.Sprintf("windows[%d].label", i), Err: ErrMissingValue}
		}
		if seen[w.Label] {
			return nil, &ConfigurationError{Field: fmt.Sprintf("windows[%d].label", i), Err: fmt.Errorf("duplicate label %q", w.Label)}
		}
		seen[w.Label] = true

		if w.Title == "" {
			w.Title = ctx.ProductName
		}
		if w.Width <= 0 {
			w.Width = DefaultWindowWidth
		}
		if w.Height <= 0 {
			w.Height = DefaultWindowHeight
		}
	}

	if ctx.Plugins.Updater.TimeoutSeconds <= 0 {
		ctx.Plugins.Updater.TimeoutSeconds = 30
	}

	return &ctx, nil
}

// Window returns the window declared under label.
func (c *Context) Window(label string) (WindowConfig, bool) {
	for _, w := range c.Windows {
		if w.Label == label {
			return w, true
		}
	}
	return WindowConfig{}, false
}

// DataDir returns the per-user directory for application data (~/.<identifier>).
func (c *Context) DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home cannot be determined
		return "." + c.Identifier
	}
	return filepath.Join(home, "."+c.Identifier)
}

// LogDir returns the directory for log files.
func (c *Context) LogDir() string {
	return filepath.Join(c.DataDir(), "logs")
}

// SettingsPath returns the default location of the user settings file.
func (c *Context) SettingsPath() string {
	return filepath.Join(c.DataDir(), "config.toml")
}
