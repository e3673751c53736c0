package desktop

import (
	"context"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// CommandFunc handles a command invoked from the front-end. The result must
// be JSON serializable.
type CommandFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// CommandError is the structured error returned across the front-end boundary.
type CommandError struct {
	Command string `json:"command"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s: %s", e.Command, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandTable maps command names to handlers. It is built once at startup
// and read-only afterwards.
type CommandTable struct {
	handlers map[string]CommandFunc
}

// NewCommandTable creates an empty table.
func NewCommandTable() *CommandTable {
	return &CommandTable{handlers: make(map[string]CommandFunc)}
}

// Register adds a handler. Empty or duplicate names are programming errors and panic.
func (t *CommandTable) Register(name string, fn CommandFunc) *CommandTable {
	if name == "" {
		panic("desktop: command name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("desktop: command %q has nil handler", name))
	}
	if _, exists := t.handlers[name]; exists {
		panic(fmt.Sprintf("desktop: command %q registered twice", name))
	}
	t.handlers[name] = fn
	return t
}

// Names returns the registered command names, sorted.
func (t *CommandTable) Names() []string {
	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches name to its handler. Handler errors are wrapped in a CommandError.
func (t *CommandTable) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	fn, ok := t.handlers[name]
	if !ok {
		msg := ErrUnknownCommand.Error()
		if s := t.suggest(name); s != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, s)
		}
		return nil, &CommandError{Command: name, Message: msg, Err: ErrUnknownCommand}
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	result, err := fn(ctx, args)
	if err != nil {
		if _, ok := err.(*CommandError); ok {
			return nil, err
		}
		return nil, &CommandError{Command: name, Message: err.Error(), Err: err}
	}
	return result, nil
}

// suggest returns the registered name closest to name, if it is within a
// third of name's length in edits.
func (t *CommandTable) suggest(name string) string {
	best, bestDist := "", len(name)/3+1
	for _, candidate := range t.Names() {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// Bridge is bound into the host; its Invoke method is the generic command
// invocation boundary for the front-end.
type Bridge struct {
	app   *App
	table *CommandTable
}

// NewBridge creates a bridge dispatching to table.
func NewBridge(app *App, table *CommandTable) *Bridge {
	return &Bridge{app: app, table: table}
}

// Invoke runs a command by name.
func (b *Bridge) Invoke(command string, args map[string]interface{}) (interface{}, error) {
	result, err := b.table.Invoke(b.app.Context(), command, args)
	if err != nil {
		b.app.Logger().With(zap.String("command", command), zap.Error(err)).Warning("command failed")
		return nil, err
	}
	return result, nil
}

// Quit closes the application. Plugins shut down through the host's
// shutdown hook.
func (b *Bridge) Quit() {
	b.app.Logger().Info("quit requested by front-end")
	b.app.Quit()
}

// Commands lists the commands the front-end may invoke.
func (b *Bridge) Commands() []string {
	return b.table.Names()
}
