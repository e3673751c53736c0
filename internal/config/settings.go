package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultLogLevel is used when the settings file is missing or invalid.
const DefaultLogLevel = "info"

// Settings represents the [desktop] section of the user config.toml
type Settings struct {
	LogLevel string          `toml:"log_level"` // "trace", "debug", "info", "warning" or "error"
	Updater  UpdaterSettings `toml:"updater"`
}

// UpdaterSettings represents the [desktop.updater] section
type UpdaterSettings struct {
	// CheckOnStartup queries the update endpoints once the app has started.
	// nil = default true
	CheckOnStartup *bool `toml:"check_on_startup,omitempty"`
}

// ShouldCheckOnStartup reports whether an update check runs at startup.
func (u UpdaterSettings) ShouldCheckOnStartup() bool {
	return u.CheckOnStartup == nil || *u.CheckOnStartup
}

// settingsFile represents the entire config.toml structure we care about
type settingsFile struct {
	Desktop Settings `toml:"desktop"`
	// Other sections are preserved as raw TOML
}

// SettingsManager manages the user settings file
type SettingsManager struct {
	configPath string
}

// NewSettingsManager creates a settings manager for the file at path
func NewSettingsManager(path string) *SettingsManager {
	return &SettingsManager{configPath: path}
}

// Path returns the settings file location
func (sm *SettingsManager) Path() string {
	return sm.configPath
}

func defaultSettings() *Settings {
	return &Settings{LogLevel: DefaultLogLevel}
}

// Load reads the desktop section, applying defaults for missing or invalid values.
// A missing file is not an error. The returned settings are never nil: on a
// read error they are the defaults.
func (sm *SettingsManager) Load() (*Settings, error) {
	data, err := os.ReadFile(sm.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return defaultSettings(), err
	}

	var file settingsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return defaultSettings(), nil // Return defaults on parse error
	}

	file.Desktop.LogLevel = normalizeLogLevel(file.Desktop.LogLevel)
	return &file.Desktop, nil
}

// LoadOrCreate loads the settings and writes a defaults file on first run.
// Like Load it always returns usable settings; the error only reports that
// the file could not be read or created.
func (sm *SettingsManager) LoadOrCreate() (*Settings, error) {
	if _, err := os.Stat(sm.configPath); os.IsNotExist(err) {
		settings := defaultSettings()
		return settings, sm.Save(settings)
	}
	return sm.Load()
}

// Save writes the desktop section, preserving other sections of the file
func (sm *SettingsManager) Save(settings *Settings) error {
	existingData, _ := os.ReadFile(sm.configPath)

	// Parse existing config into a map to preserve unknown sections
	existingConfig := make(map[string]interface{})
	if len(existingData) > 0 {
		if err := toml.Unmarshal(existingData, &existingConfig); err != nil {
			existingConfig = make(map[string]interface{})
		}
	}

	updater := map[string]interface{}{}
	if settings.Updater.CheckOnStartup != nil {
		updater["check_on_startup"] = *settings.Updater.CheckOnStartup
	}
	existingConfig["desktop"] = map[string]interface{}{
		"log_level": normalizeLogLevel(settings.LogLevel),
		"updater":   updater,
	}

	if err := os.MkdirAll(filepath.Dir(sm.configPath), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existingData) == 0 {
		buf.WriteString("# NYOWORKS Desktop Configuration\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existingConfig); err != nil {
		return err
	}

	return os.WriteFile(sm.configPath, buf.Bytes(), 0600)
}

func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "trace", "debug", "info", "warning", "error":
		return level
	case "warn":
		return "warning"
	default:
		return DefaultLogLevel
	}
}
