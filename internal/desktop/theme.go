package desktop

import (
	"os/exec"
	"runtime"
	"strings"
)

// Theme is the OS appearance the window is styled for.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// themeProbe reads one OS setting. ok is false when the answer says nothing
// about the appearance and the next probe should run.
type themeProbe struct {
	cmd  []string
	read func(out string, err error) (theme Theme, ok bool)
}

func gsettings(key string) []string {
	return []string{"gsettings", "get", "org.gnome.desktop.interface", key}
}

// themeProbes run in order per GOOS; the first conclusive answer wins.
var themeProbes = map[string][]themeProbe{
	"darwin": {
		{cmd: []string{"defaults", "read", "-g", "AppleInterfaceStyle"}, read: readInterfaceStyle},
	},
	"linux": {
		{cmd: gsettings("color-scheme"), read: readColorScheme},
		{cmd: gsettings("gtk-theme"), read: readGTKTheme},
	},
	"windows": {
		{
			cmd: []string{"reg", "query",
				`HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`,
				"/v", "AppsUseLightTheme"},
			read: readAppsUseLightTheme,
		},
	},
}

// runProbe executes a probe command. Tests replace it.
var runProbe = func(cmd []string) (string, error) {
	out, err := exec.Command(cmd[0], cmd[1:]...).Output()
	return string(out), err
}

// DetectTheme returns the OS appearance, dark when it cannot be determined.
func DetectTheme() Theme {
	return detectTheme(runtime.GOOS)
}

func detectTheme(goos string) Theme {
	for _, p := range themeProbes[goos] {
		out, err := runProbe(p.cmd)
		if theme, ok := p.read(out, err); ok {
			return theme
		}
	}
	return ThemeDark
}

// AppleInterfaceStyle only exists while dark mode is on.
func readInterfaceStyle(out string, err error) (Theme, bool) {
	if err == nil && strings.TrimSpace(out) == "Dark" {
		return ThemeDark, true
	}
	return ThemeLight, true
}

func readColorScheme(out string, err error) (Theme, bool) {
	if err != nil {
		return "", false
	}
	switch scheme := strings.ToLower(out); {
	case strings.Contains(scheme, "dark"):
		return ThemeDark, true
	case strings.Contains(scheme, "light"):
		return ThemeLight, true
	}
	return "", false
}

func readGTKTheme(out string, err error) (Theme, bool) {
	if err != nil || !strings.Contains(strings.ToLower(out), "dark") {
		return "", false
	}
	return ThemeDark, true
}

// reg prints e.g. "AppsUseLightTheme    REG_DWORD    0x0".
func readAppsUseLightTheme(out string, err error) (Theme, bool) {
	if err != nil {
		return "", false
	}
	fields := strings.Fields(out)
	for i, f := range fields {
		if f != "REG_DWORD" || i+1 >= len(fields) {
			continue
		}
		switch fields[i+1] {
		case "0x0":
			return ThemeDark, true
		case "0x1":
			return ThemeLight, true
		}
	}
	return "", false
}
