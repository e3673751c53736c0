package desktop

import "context"

// Plugin is a capability registered with the Builder.
//
// Init runs during bootstrap in registration order, before setup callbacks.
// Shutdown runs when the host exits, in reverse registration order.
type Plugin interface {
	Name() string
	Init(app *App) error
	Shutdown(ctx context.Context) error
	// Bind returns the value whose exported methods are exposed to the
	// front-end, or nil.
	Bind() interface{}
}
