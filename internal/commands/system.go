// Package commands holds the backend commands reachable from the front-end.
package commands

import (
	"context"

	"github.com/naimozcan/nyoworks-framework/internal/desktop"
)

// AppName is the product identifier reported to the front-end.
const AppName = "NYOWORKS"

// AppInfo is the static name/version metadata of the running build.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GetAppInfo returns the product name and the build's declared version.
func GetAppInfo() AppInfo {
	return AppInfo{
		Name:    AppName,
		Version: desktop.Version,
	}
}

func getAppInfo(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return GetAppInfo(), nil
}

// System is bound into the host so the front-end gets a typed GetAppInfo binding.
type System struct{}

// GetAppInfo returns the product name and version.
func (System) GetAppInfo() AppInfo {
	return GetAppInfo()
}

// GetSystemTheme returns the OS appearance, "dark" or "light".
func (System) GetSystemTheme() string {
	return string(desktop.DetectTheme())
}
