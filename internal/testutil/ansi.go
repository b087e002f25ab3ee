// Package testutil holds helpers shared by the tests of several packages.
package testutil

import (
	"regexp"
	"strings"
)

// csiPattern matches ANSI CSI sequences (ESC '[' params final-letter), which
// covers every color and style code the ui themes emit.
var csiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes color and style sequences so tests can compare
// terminal output as plain text.
func StripAnsiCodes(s string) string {
	return csiPattern.ReplaceAllString(s, "")
}

// Lines splits s on newlines after stripping escape sequences, dropping a
// trailing empty line.
func Lines(s string) []string {
	return strings.Split(strings.TrimSuffix(StripAnsiCodes(s), "\n"), "\n")
}
