package commands

import "github.com/naimozcan/nyoworks-framework/internal/desktop"

// Command names.
const (
	GetAppInfoCommand = "get_app_info"
)

// Table returns the full command table registered at startup.
func Table() *desktop.CommandTable {
	return desktop.NewCommandTable().
		Register(GetAppInfoCommand, getAppInfo)
}
