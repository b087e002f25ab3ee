package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/picalc/internal/cache"
	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/planner"
	"github.com/agbru/picalc/internal/server"
	"github.com/agbru/picalc/internal/ui"
)

// Application is one picalc invocation: a parsed configuration and the
// engines it may run.
type Application struct {
	Config  config.AppConfig
	Factory chudnovsky.CalculatorFactory
	// ErrWriter receives diagnostics, statistics and logs.
	ErrWriter io.Writer
}

// New parses args (program name first) against the engines of the global
// factory.
func New(args []string, errWriter io.Writer) (*Application, error) {
	return NewWithFactory(args, errWriter, chudnovsky.GlobalFactory())
}

// NewWithFactory is New with an explicit engine factory.
func NewWithFactory(args []string, errWriter io.Writer, factory chudnovsky.CalculatorFactory) (*Application, error) {
	programName := "picalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}
	return &Application{Config: cfg, Factory: factory, ErrWriter: errWriter}, nil
}

// ConfigureLogging routes the global zerolog logger to ErrWriter at the
// level selected by -verbose.
func (a *Application) ConfigureLogging() {
	logging.Configure(a.ErrWriter, a.Config.Verbose)
}

// Run dispatches to the completion, server or calculation mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer(ctx)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runServer(ctx context.Context) int {
	opts := []server.Option{server.WithLogger(logging.NewLogger(a.ErrWriter, "server"))}
	if rc := a.newResultCache(); rc != nil {
		defer rc.Close()
		opts = append(opts, server.WithCache(rc))
	}

	srv := server.NewServer(a.Factory, a.Config, opts...)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// newResultCache returns the Redis cache configured by -redis, or nil when
// caching is disabled.
func (a *Application) newResultCache() *cache.RedisCache {
	if a.Config.RedisAddr == "" {
		return nil
	}
	return cache.NewRedisCache(a.Config.RedisAddr,
		cache.WithTTL(a.Config.RedisTTL),
		cache.WithMaxIdle(a.Config.RedisMaxIdle))
}

// runCalculate computes π once with the selected engine, or with every
// engine when -engine all is given. A timeout or a signal ends the run
// without waiting for the arithmetic, which cannot be interrupted.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	start := time.Now()
	plan, err := planner.ForDigits(a.Config.Digits)
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, out, ui.ErrorColors{})
	}
	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		err := apperrors.NewConfigError("no engine matches %q", a.Config.Engine)
		return apperrors.HandleCalculationError(err, 0, out, ui.ErrorColors{})
	}

	banners := !a.Config.JSONOutput && !a.Config.Quiet
	if banners {
		cli.PrintExecutionConfig(a.Config, plan, out)
		cli.PrintExecutionMode(calculators, out)
	}
	progressOut := out
	if !banners {
		progressOut = io.Discard
	}

	done := make(chan []orchestration.CalculationResult, 1)
	go func() {
		done <- orchestration.ExecuteCalculations(ctx, calculators, plan, a.Config, progressOut)
	}()

	var results []orchestration.CalculationResult
	select {
	case results = <-done:
	case <-ctx.Done():
		return apperrors.HandleCalculationError(ctx.Err(), time.Since(start), out, ui.ErrorColors{})
	}

	if a.Config.JSONOutput {
		return printJSONResults(results, plan, a.Config.Threads, out)
	}
	return a.reportResults(results, plan, out)
}

// reportResults prints the outcome of a finished run. With several engines
// the comparison table comes first and a disagreement aborts the output.
func (a *Application) reportResults(results []orchestration.CalculationResult, plan planner.Plan, out io.Writer) int {
	if len(results) > 1 {
		tableOut := out
		if a.Config.Quiet {
			tableOut = io.Discard
		}
		if code := orchestration.AnalyzeComparisonResults(results, tableOut); code != apperrors.ExitSuccess {
			if a.Config.Quiet {
				fmt.Fprintf(a.ErrWriter, "engine comparison failed with exit code %d\n", code)
			}
			return code
		}
	}

	best := orchestration.FirstSuccess(results)
	if best == nil {
		return apperrors.HandleCalculationError(results[0].Err, results[0].Duration, out, ui.ErrorColors{})
	}
	if !a.Config.Quiet {
		fmt.Fprintln(out)
	}

	meta := cli.ResultMeta{
		Engine:   best.Name,
		Digits:   plan.Digits,
		Threads:  a.Config.Threads,
		Duration: best.Duration,
	}
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Stats:      a.Config.Stats,
	}
	if err := cli.DisplayOutcome(out, a.ErrWriter, best.Digits, meta, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

type jsonReport struct {
	Digits  int          `json:"digits"`
	Threads int          `json:"threads"`
	Results []jsonResult `json:"results"`
}

type jsonResult struct {
	Engine   string `json:"engine"`
	Duration string `json:"duration"`
	Value    string `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

// printJSONResults writes one JSON document describing every engine run.
// The exit code follows the same rules as the text output.
func printJSONResults(results []orchestration.CalculationResult, plan planner.Plan, threads int, out io.Writer) int {
	report := jsonReport{Digits: plan.Digits, Threads: threads, Results: make([]jsonResult, len(results))}
	code := apperrors.ExitSuccess
	var reference string
	var firstErr error
	successes := 0
	for i, res := range results {
		jr := jsonResult{Engine: res.Name, Duration: res.Duration.String()}
		if res.Err != nil {
			jr.Error = res.Err.Error()
			if firstErr == nil {
				firstErr = res.Err
			}
		} else {
			jr.Value = res.Digits
			if successes > 0 && res.Digits != reference {
				code = apperrors.ExitErrorMismatch
			}
			reference = res.Digits
			successes++
		}
		report.Results[i] = jr
	}
	if successes == 0 && firstErr != nil {
		code = apperrors.HandleCalculationError(firstErr, 0, io.Discard, apperrors.PlainColors{})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return code
}
