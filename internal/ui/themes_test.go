package ui

import (
	"testing"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// withTerminal fakes the TTY detection and restores the theme afterwards.
func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	prevTheme := GetCurrentTheme()
	prevDetect := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return tty }
	t.Cleanup(func() {
		SetCurrentTheme(prevTheme)
		stdoutIsTerminal = prevDetect
	})
}

func TestSetTheme(t *testing.T) {
	withTerminal(t, true)
	tests := []struct {
		name string
		want Theme
	}{
		{"dark", DarkTheme},
		{"light", LightTheme},
		{"none", NoColorTheme},
		{"solarized", DarkTheme},
		{"", DarkTheme},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme(); got != tt.want {
			t.Errorf("SetTheme(%q) selected %q; want %q", tt.name, got.Name, tt.want.Name)
		}
	}
}

func TestColorsEnabled(t *testing.T) {
	t.Run("terminal", func(t *testing.T) {
		withTerminal(t, true)
		t.Setenv("NO_COLOR", "")
		// NO_COLOR counts when present, even if empty.
		if ColorsEnabled(false) {
			t.Error("NO_COLOR must disable colors")
		}
	})
	t.Run("pipe", func(t *testing.T) {
		withTerminal(t, false)
		if ColorsEnabled(false) {
			t.Error("colors must be off when stdout is not a terminal")
		}
	})
	t.Run("flag", func(t *testing.T) {
		withTerminal(t, true)
		if ColorsEnabled(true) {
			t.Error("-no-color must disable colors")
		}
	})
}

func TestInitTheme(t *testing.T) {
	withTerminal(t, false)
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("non-TTY output selected %q", GetCurrentTheme().Name)
	}
	if ColorRed() != "" || ColorReset() != "" || ColorBold() != "" {
		t.Error("NoColorTheme must not emit escape sequences")
	}
}

func TestColorShorthands(t *testing.T) {
	withTerminal(t, true)
	SetCurrentTheme(DarkTheme)
	pairs := map[string][2]string{
		"red":     {ColorRed(), DarkTheme.Error},
		"green":   {ColorGreen(), DarkTheme.Success},
		"yellow":  {ColorYellow(), DarkTheme.Warning},
		"blue":    {ColorBlue(), DarkTheme.Primary},
		"magenta": {ColorMagenta(), DarkTheme.Info},
		"cyan":    {ColorCyan(), DarkTheme.Secondary},
		"under":   {ColorUnderline(), DarkTheme.Underline},
	}
	for name, p := range pairs {
		if p[0] != p[1] {
			t.Errorf("%s shorthand = %q; want %q", name, p[0], p[1])
		}
	}

	var cp apperrors.ColorProvider = ErrorColors{}
	if cp.Red() != DarkTheme.Error || cp.Yellow() != DarkTheme.Warning || cp.Reset() != DarkTheme.Reset {
		t.Error("ErrorColors does not follow the active theme")
	}
}
