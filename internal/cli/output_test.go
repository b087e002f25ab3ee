package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/testutil"
	"github.com/agbru/picalc/internal/ui"
)

func useNoColor(t *testing.T) {
	t.Helper()
	previous := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(previous) })
}

func TestStatsDecimalsPerSecond(t *testing.T) {
	s := Stats{Duration: 2 * time.Second, Decimals: 1000}
	if got := s.DecimalsPerSecond(); got != 500 {
		t.Errorf("DecimalsPerSecond() = %v; want 500", got)
	}
	if got := (Stats{Decimals: 1000}).DecimalsPerSecond(); got != 0 {
		t.Errorf("DecimalsPerSecond() with zero duration = %v; want 0", got)
	}
}

func TestDisplayStats(t *testing.T) {
	useNoColor(t)
	var out bytes.Buffer
	DisplayStats(&out, Stats{Duration: 12 * time.Millisecond, Threads: 4, Decimals: 10000})

	want := []string{
		"======= Stats =======",
		"Time      : 12ms",
		"Threads   : 4",
		"Decimals  : 10,000",
		"Dec / sec : 833,333",
	}
	if got := testutil.Lines(out.String()); !slices.Equal(got, want) {
		t.Errorf("stats block = %q; want %q", got, want)
	}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "pi.txt")
	meta := ResultMeta{Engine: "split", Digits: 10, Threads: 2, Duration: time.Second}
	if err := WriteResultToFile(path, "3.1415926535", meta); err != nil {
		t.Fatalf("WriteResultToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	for _, want := range []string{"# Pi Calculation Result\n", "# Engine: split\n", "# Decimals: 10\n", "# Threads: 2\n", "\n3.1415926535\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("file missing %q:\n%s", want, content)
		}
	}
}

func TestWriteResultToFile_EmptyPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile("", "3", ResultMeta{}); err != nil {
		t.Errorf("WriteResultToFile(\"\") = %v; want nil", err)
	}
}

func TestWriteResultToFile_Unwritable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteResultToFile(filepath.Join(blocker, "pi.txt"), "3", ResultMeta{}); err == nil {
		t.Error("expected an error when the parent is a regular file")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteResult_ReportsWriteErrors(t *testing.T) {
	t.Parallel()
	for _, value := range []string{"3.14", "3." + strings.Repeat("1", 10000)} {
		if err := writeResult(failingWriter{}, value, ResultMeta{}); err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("writeResult(%d bytes) = %v; want the write error", len(value), err)
		}
	}
}

func TestDisplayOutcome(t *testing.T) {
	useNoColor(t)
	meta := ResultMeta{Engine: "split", Digits: 5, Threads: 1, Duration: time.Millisecond}

	t.Run("default", func(t *testing.T) {
		var out, stats bytes.Buffer
		if err := DisplayOutcome(&out, &stats, "3.14159", meta, OutputConfig{}); err != nil {
			t.Fatal(err)
		}
		if out.String() != "3.14159\n" {
			t.Errorf("stdout = %q", out.String())
		}
		if stats.Len() != 0 {
			t.Errorf("unexpected stats output %q", stats.String())
		}
	})

	t.Run("quiet with stats and file", func(t *testing.T) {
		var out, stats bytes.Buffer
		path := filepath.Join(t.TempDir(), "pi.txt")
		cfg := OutputConfig{Quiet: true, Stats: true, OutputFile: path}
		if err := DisplayOutcome(&out, &stats, "3.14159", meta, cfg); err != nil {
			t.Fatal(err)
		}
		if out.Len() != 0 {
			t.Errorf("quiet run wrote %q to stdout", out.String())
		}
		if got := testutil.StripAnsiCodes(stats.String()); !strings.Contains(got, "Decimals  : 5") {
			t.Errorf("stats = %q", got)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output file not written: %v", err)
		}
	})

	t.Run("saved notice", func(t *testing.T) {
		var out, stats bytes.Buffer
		path := filepath.Join(t.TempDir(), "pi.txt")
		if err := DisplayOutcome(&out, &stats, "3.14159", meta, OutputConfig{OutputFile: path}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stats.String(), "Result saved to: "+path) {
			t.Errorf("missing save notice: %q", stats.String())
		}
	})
}
