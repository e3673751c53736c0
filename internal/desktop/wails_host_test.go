package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

func TestParseHexColour(t *testing.T) {
	rgba, err := parseHexColour("#1b2636")
	require.NoError(t, err)
	assert.Equal(t, uint8(27), rgba.R)
	assert.Equal(t, uint8(38), rgba.G)
	assert.Equal(t, uint8(54), rgba.B)

	rgba, err = parseHexColour("FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), rgba.R)

	for _, bad := range []string{"", "#fff", "#gggggg", "#12345678"} {
		_, err := parseHexColour(bad)
		assert.Error(t, err, "parseHexColour(%q)", bad)
	}
}

func TestWailsHostShowWindowRequiresContext(t *testing.T) {
	h := NewWailsHost(nil)
	err := h.ShowWindow(nil, testContext("main").Windows[0])
	assert.ErrorIs(t, err, ErrNotStarted)
}

func testHostOptions(cfg *config.Context) HostOptions {
	return HostOptions{Context: cfg, Logger: logging.NewNop()}
}

func TestAppOptions_FollowTheme(t *testing.T) {
	cfg := testContext("main")

	light := &WailsHost{theme: func() Theme { return ThemeLight }}
	app := light.appOptions(testHostOptions(cfg))
	assert.Equal(t, options.RGBA{R: 246, G: 248, B: 250, A: 1}, *app.BackgroundColour)
	assert.Equal(t, mac.NSAppearanceNameAqua, app.Mac.Appearance)
	assert.Equal(t, windows.Light, app.Windows.Theme)

	dark := &WailsHost{theme: func() Theme { return ThemeDark }}
	app = dark.appOptions(testHostOptions(cfg))
	assert.Equal(t, options.RGBA{R: 27, G: 38, B: 54, A: 1}, *app.BackgroundColour)
	assert.Equal(t, mac.NSAppearanceNameDarkAqua, app.Mac.Appearance)
	assert.Equal(t, windows.Dark, app.Windows.Theme)
}

func TestAppOptions_DeclaredBackgroundWins(t *testing.T) {
	cfg := testContext("main")
	cfg.Windows[0].Background = "#102030"

	h := &WailsHost{theme: func() Theme { return ThemeLight }}
	app := h.appOptions(testHostOptions(cfg))

	assert.Equal(t, options.RGBA{R: 16, G: 32, B: 48, A: 1}, *app.BackgroundColour)
}

func TestAppOptions_WindowAndBundle(t *testing.T) {
	orig := Version
	Version = "1.4.0"
	defer func() { Version = orig }()

	cfg := testContext("main")
	cfg.Windows[0].MinWidth = 800
	fixed := false
	cfg.Windows[0].Resizable = &fixed
	cfg.Bundle = config.BundleConfig{Copyright: "Copyright (c) NYOWORKS", Description: "Desktop shell"}

	h := &WailsHost{theme: func() Theme { return ThemeDark }}
	app := h.appOptions(testHostOptions(cfg))

	assert.Equal(t, "NYOWORKS", app.Title)
	assert.Equal(t, 800, app.MinWidth)
	assert.True(t, app.DisableResize)
	assert.True(t, app.StartHidden, "visibility is decided by setup")
	assert.Equal(t, "NYOWORKS", app.Mac.About.Title)
	assert.Equal(t, "Version 1.4.0\nDesktop shell\nCopyright (c) NYOWORKS", app.Mac.About.Message)
	assert.Equal(t, "nyoworks-test", app.Linux.ProgramName)
}
