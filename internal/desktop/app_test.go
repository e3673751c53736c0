package desktop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.True(t, strings.Contains(Version, "."), "Version should contain a dot")
}

func TestNewApp(t *testing.T) {
	app := NewApp(testContext("main"), &fakeHost{}, logging.NewNop())
	assert.NotNil(t, app)
	assert.Equal(t, context.Background(), app.Context())
}

func TestAppContextInitialization(t *testing.T) {
	app := NewApp(testContext("main"), &fakeHost{}, logging.NewNop())
	ctx := context.WithValue(context.Background(), ctxKey{}, "started")

	app.Startup(ctx)

	assert.Equal(t, "started", app.Context().Value(ctxKey{}))
}

func TestAppOnStartupHooks(t *testing.T) {
	app := NewApp(testContext("main"), &fakeHost{}, logging.NewNop())

	var calls []string
	app.OnStartup(func(ctx context.Context) { calls = append(calls, "before") })
	assert.Empty(t, calls, "hook should wait for startup")

	app.Startup(context.Background())
	assert.Equal(t, []string{"before"}, calls)

	app.OnStartup(func(ctx context.Context) { calls = append(calls, "after") })
	assert.Equal(t, []string{"before", "after"}, calls, "hook registered after startup runs immediately")
}

func TestAppEmit(t *testing.T) {
	host := &fakeHost{}
	app := NewApp(testContext("main"), host, logging.NewNop())

	app.Emit("early", 1)
	assert.Empty(t, host.events, "events before startup are dropped")

	app.Startup(context.Background())
	app.Emit("store://change", "settings")
	require.Len(t, host.events, 1)
	assert.Equal(t, "store://change", host.events[0].name)
	assert.Equal(t, []interface{}{"settings"}, host.events[0].data)
}

func TestAppOpenURL(t *testing.T) {
	host := &fakeHost{}
	app := NewApp(testContext("main"), host, logging.NewNop())

	assert.True(t, errors.Is(app.OpenURL("https://example.com"), ErrNotStarted))

	app.Startup(context.Background())
	require.NoError(t, app.OpenURL("https://example.com"))
	assert.Equal(t, []string{"https://example.com"}, host.opened)
}

func TestWindowShowAfterDomReady(t *testing.T) {
	host := &fakeHost{}
	app := NewApp(testContext("main", "about"), host, logging.NewNop())
	app.Startup(context.Background())
	app.DomReady(context.Background())

	w, err := app.Window("about")
	require.NoError(t, err)
	assert.Equal(t, "about", w.Label())

	require.NoError(t, w.Show())
	assert.Equal(t, []string{"about"}, host.shown)

	host.showErr = errors.New("hidden by policy")
	assert.Error(t, w.Show(), "show errors after startup are returned to the caller")
}

func TestWindowShowDeferredUntilDomReady(t *testing.T) {
	host := &fakeHost{}
	app := NewApp(testContext("main"), host, logging.NewNop())

	w, err := app.Window(MainWindowLabel)
	require.NoError(t, err)
	require.NoError(t, w.Show())
	assert.Empty(t, host.shown)

	app.DomReady(context.Background())
	assert.Equal(t, []string{"main"}, host.shown)
}

func TestAppQuit(t *testing.T) {
	host := &fakeHost{}
	app := NewApp(testContext("main"), host, logging.NewNop())

	app.Quit()
	assert.False(t, host.quit, "quit before startup is a no-op")

	app.Startup(context.Background())
	app.Quit()
	assert.True(t, host.quit)
}
