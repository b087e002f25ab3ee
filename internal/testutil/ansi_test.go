package testutil

import (
	"slices"
	"testing"
)

func TestStripAnsiCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input, want string
	}{
		{"π = 3.14159", "π = 3.14159"},
		{"\x1b[31mfailure\x1b[0m", "failure"},
		{"\x1b[1;32m✅ Success\x1b[0m", "✅ Success"},
		{"Time      : \x1b[32m12ms\x1b[0m", "Time      : 12ms"},
		{"\x1b[4mEngine\x1b[0m\t\x1b[4mDuration\x1b[0m", "Engine\tDuration"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripAnsiCodes(tt.input); got != tt.want {
			t.Errorf("StripAnsiCodes(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}

func TestLines(t *testing.T) {
	t.Parallel()
	got := Lines("\x1b[1m======= Stats =======\x1b[0m\nThreads   : 4\n")
	want := []string{"======= Stats =======", "Threads   : 4"}
	if !slices.Equal(got, want) {
		t.Errorf("Lines() = %q; want %q", got, want)
	}
}
