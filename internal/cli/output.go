package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// OutputConfig selects what a finished run prints.
type OutputConfig struct {
	// OutputFile also receives the digits when set.
	OutputFile string
	// Quiet suppresses the digits on stdout.
	Quiet bool
	// Stats prints the statistics block on the stats writer.
	Stats bool
}

// Stats describes one finished computation.
type Stats struct {
	Duration time.Duration
	Threads  int
	Decimals int
}

// DecimalsPerSecond returns the throughput of the run, or 0 when the
// duration is not measurable.
func (s Stats) DecimalsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Decimals) / s.Duration.Seconds()
}

// DisplayStats writes the statistics block:
//
//	======= Stats =======
//	Time      : 12ms
//	Threads   : 4
//	Decimals  : 10,000
//	Dec / sec : 833,333
func DisplayStats(out io.Writer, s Stats) {
	fmt.Fprintf(out, "%s======= Stats =======%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Time      : %s%s%s\n", ColorGreen(), FormatExecutionDuration(s.Duration), ColorReset())
	fmt.Fprintf(out, "Threads   : %s%d%s\n", ColorCyan(), s.Threads, ColorReset())
	fmt.Fprintf(out, "Decimals  : %s%s%s\n", ColorCyan(), humanize.Comma(int64(s.Decimals)), ColorReset())
	fmt.Fprintf(out, "Dec / sec : %s%s%s\n", ColorCyan(), humanize.Comma(int64(s.DecimalsPerSecond()+0.5)), ColorReset())
}

// ResultMeta is the provenance written in the header of an output file.
type ResultMeta struct {
	Engine   string
	Digits   int
	Threads  int
	Duration time.Duration
}

// WriteResultToFile writes value, preceded by a commented header, to path.
// Missing parent directories are created.
func WriteResultToFile(path, value string, meta ResultMeta) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeResult(file, value, meta); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// writeResult writes the header and the digits to w. Buffered write errors
// surface through Flush.
func writeResult(w io.Writer, value string, meta ResultMeta) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Pi Calculation Result\n")
	fmt.Fprintf(bw, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(bw, "# Engine: %s\n", meta.Engine)
	fmt.Fprintf(bw, "# Decimals: %d\n", meta.Digits)
	fmt.Fprintf(bw, "# Threads: %d\n", meta.Threads)
	fmt.Fprintf(bw, "# Duration: %s\n\n", meta.Duration)
	fmt.Fprintln(bw, value)
	return bw.Flush()
}

// DisplayOutcome prints value on out unless quiet, writes the output file
// and prints the statistics on statsOut when requested.
func DisplayOutcome(out, statsOut io.Writer, value string, meta ResultMeta, cfg OutputConfig) error {
	if !cfg.Quiet {
		DisplayResult(out, value)
	}
	if cfg.OutputFile != "" {
		if err := WriteResultToFile(cfg.OutputFile, value, meta); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(statsOut, "%s✓ Result saved to: %s%s%s\n", ColorGreen(), ColorCyan(), cfg.OutputFile, ColorReset())
		}
	}
	if cfg.Stats {
		DisplayStats(statsOut, Stats{Duration: meta.Duration, Threads: meta.Threads, Decimals: meta.Digits})
	}
	return nil
}
