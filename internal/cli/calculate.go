package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/cpu"

	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/planner"
)

// GetCalculatorsToRun resolves the -engine selection. "all" returns every
// registered engine in name order.
func GetCalculatorsToRun(cfg config.AppConfig, factory chudnovsky.CalculatorFactory) []chudnovsky.Calculator {
	if cfg.Engine == config.AllEngines {
		names := factory.List()
		calculators := make([]chudnovsky.Calculator, 0, len(names))
		for _, name := range names {
			if calc, err := factory.Get(name); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Engine); err == nil {
		return []chudnovsky.Calculator{calc}
	}
	return nil
}

// CPUFeatures lists the multiplication-relevant instruction set extensions
// of the host, for the execution banner.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	add(cpu.X86.HasAVX2, "AVX2")
	add(cpu.X86.HasAVX512F, "AVX-512")
	add(cpu.X86.HasBMI2, "BMI2")
	add(cpu.X86.HasADX, "ADX")
	add(cpu.ARM64.HasASIMD, "ASIMD")
	add(cpu.ARM64.HasSVE, "SVE")
	return features
}

// PrintExecutionConfig writes the banner describing the run about to start.
func PrintExecutionConfig(cfg config.AppConfig, plan planner.Plan, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Computing %s%s%s decimals of π with %s%d%s thread(s), timeout %s%s%s.\n",
		ColorMagenta(), humanize.Comma(int64(plan.Digits)), ColorReset(),
		ColorCyan(), cfg.Threads, ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	fmt.Fprintf(out, "Series: %s%s%s terms, %s%s%s bits of precision.\n",
		ColorCyan(), humanize.Comma(int64(plan.SeriesLength)), ColorReset(),
		ColorCyan(), humanize.Comma(int64(plan.PrecisionBits)), ColorReset())

	features := "none detected"
	if f := CPUFeatures(); len(f) > 0 {
		features = strings.Join(f, ", ")
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(),
		ColorCyan(), runtime.Version(), ColorReset(), features)
}

// PrintExecutionMode tells whether a single engine runs or all are compared.
func PrintExecutionMode(calculators []chudnovsky.Calculator, out io.Writer) {
	mode := "Parallel comparison of all engines"
	if len(calculators) == 1 {
		mode = fmt.Sprintf("Single calculation with the %s%s%s engine%s", ColorGreen(), calculators[0].Name(), ColorReset(), describe(calculators[0]))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// describe returns " (<description>)" for calculators that carry a human
// readable description, and "" otherwise.
func describe(calc chudnovsky.Calculator) string {
	if d, ok := calc.(interface{ Description() string }); ok {
		return " (" + d.Description() + ")"
	}
	return ""
}
