package desktop

import "errors"

var (
	// ErrWindowNotFound is returned when a window label is not declared in app.toml.
	ErrWindowNotFound = errors.New("window not found")
	// ErrAlreadyRunning is returned when Run is called twice on one Builder.
	ErrAlreadyRunning = errors.New("application already running")
	// ErrUnknownCommand is returned when the front-end invokes an unregistered command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicatePlugin is returned when two plugins share a name.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
)
