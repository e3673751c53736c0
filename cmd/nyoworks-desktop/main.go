package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/commands"
	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/desktop"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
	"github.com/naimozcan/nyoworks-framework/internal/plugins/shell"
	"github.com/naimozcan/nyoworks-framework/internal/plugins/store"
	"github.com/naimozcan/nyoworks-framework/internal/plugins/updater"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed app.toml
var appConfig []byte

// loggedError is an error the logger has already reported.
type loggedError struct {
	error
}

func (e loggedError) Unwrap() error { return e.error }

func main() {
	if err := run(os.Args[1:], os.Stdout, desktop.NewWailsHost(frontend())); err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func frontend() fs.FS {
	sub, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		return assets
	}
	return sub
}

// run loads the configuration, builds the app and blocks in the host event loop.
func run(args []string, stdout io.Writer, host desktop.Host) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.Version {
		return json.NewEncoder(stdout).Encode(commands.GetAppInfo())
	}

	ctx, err := config.ParseContext(appConfig)
	if err != nil {
		return err
	}

	settingsPath := f.ConfigPath
	if settingsPath == "" {
		settingsPath = ctx.SettingsPath()
	}
	// Settings are optional; on error they are the defaults.
	settings, settingsErr := config.NewSettingsManager(settingsPath).LoadOrCreate()

	level := settings.LogLevel
	if f.LogLevel != "" {
		level = f.LogLevel
	}
	logFile := filepath.Join(ctx.LogDir(), "desktop.log")
	log, err := logging.New(logging.Options{Level: level, File: logFile, Console: true})
	if err != nil {
		// Console output cannot fail to open.
		log, _ = logging.New(logging.Options{Level: level, Console: true})
		log.With(zap.String("file", logFile), zap.Error(err)).Warning("log file unavailable, logging to console only")
	}
	defer log.Sync()

	if settingsErr != nil {
		log.With(zap.String("path", settingsPath), zap.Error(settingsErr)).Warning("settings unavailable, using defaults")
	}
	log.With(zap.String("product", ctx.ProductName), zap.String("version", desktop.Version)).Info("starting")

	err = desktop.NewBuilder(ctx, log).
		Plugin(shell.New(ctx.Plugins.Shell)).
		Plugin(store.New(ctx.Plugins.Store)).
		Plugin(updater.New(ctx.Plugins.Updater, settings.Updater.ShouldCheckOnStartup())).
		InvokeHandler(commands.Table()).
		Bind(&commands.System{}).
		Setup(desktop.ShowMainWindow).
		Run(host)
	if err != nil {
		log.Error(err.Error())
		return loggedError{err}
	}
	return nil
}
