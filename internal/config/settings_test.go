package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettingsLoadDefault(t *testing.T) {
	sm := NewSettingsManager(filepath.Join(t.TempDir(), "config.toml"))

	settings, err := sm.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", settings.LogLevel)
	}
	if !settings.Updater.ShouldCheckOnStartup() {
		t.Error("Expected update check on startup by default")
	}
}

func TestSettingsLoadInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[desktop]
log_level = "verbose"

[desktop.updater]
check_on_startup = false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := NewSettingsManager(configPath).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Invalid log level should fall back to 'info', got '%s'", settings.LogLevel)
	}
	if settings.Updater.ShouldCheckOnStartup() {
		t.Error("check_on_startup = false should disable the startup check")
	}
}

func TestSettingsLoadCorruptFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[desktop\nlog_level ="), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := NewSettingsManager(configPath).Load()
	if err != nil {
		t.Fatalf("Corrupt file should load defaults, got error: %v", err)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Expected default log level, got '%s'", settings.LogLevel)
	}
}

func TestSettingsWarnAlias(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[desktop]\nlog_level = \"WARN\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	settings, _ := NewSettingsManager(configPath).Load()
	if settings.LogLevel != "warning" {
		t.Errorf("Expected 'warning', got '%s'", settings.LogLevel)
	}
}

func TestSettingsSavePreservesOtherSections(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	existing := `[other]
key = "value"
`
	if err := os.WriteFile(configPath, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	sm := NewSettingsManager(configPath)
	if err := sm.Save(&Settings{LogLevel: "debug"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[other]") {
		t.Error("Other sections should be preserved")
	}

	settings, _ := sm.Load()
	if settings.LogLevel != "debug" {
		t.Errorf("Expected 'debug', got '%s'", settings.LogLevel)
	}
}

func TestSettingsLoadOrCreateWritesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	sm := NewSettingsManager(configPath)

	settings, err := sm.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Expected 'info', got '%s'", settings.LogLevel)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Settings file should have been created: %v", err)
	}
	if !strings.HasPrefix(string(data), "# NYOWORKS Desktop Configuration") {
		t.Error("New settings file should start with the header comment")
	}
}

func TestSettingsUnreadablePathFallsBackToDefaults(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(notADir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	sm := NewSettingsManager(filepath.Join(notADir, "config.toml"))

	settings, err := sm.LoadOrCreate()
	if err == nil {
		t.Fatal("LoadOrCreate should report that the file could not be created")
	}
	if settings == nil {
		t.Fatal("LoadOrCreate must return default settings alongside the error")
	}
	if settings.LogLevel != DefaultLogLevel || !settings.Updater.ShouldCheckOnStartup() {
		t.Errorf("Expected defaults, got %+v", settings)
	}

	settings, err = sm.Load()
	if settings == nil || settings.LogLevel != DefaultLogLevel {
		t.Errorf("Load should return defaults on a read error, got %+v (err %v)", settings, err)
	}
}
