// Package config provides the configuration management for the picalc
// application. It defines the configuration structure, parses command-line
// flags, applies PICALC_* environment overrides and validates the result.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/chudnovsky"
	apperrors "github.com/agbru/picalc/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by picalc.
const EnvPrefix = "PICALC_"

// Default configuration values.
const (
	// DefaultDigits is the number of decimals computed when -d is not given.
	DefaultDigits = 1000
	// DefaultThreads is the default worker count.
	DefaultThreads = 1
	// DefaultTimeout bounds a whole CLI run.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultEngine is the engine used when -engine is not given.
	DefaultEngine = "split"
	// DefaultMaxDigits is the largest request the server accepts.
	DefaultMaxDigits = 1_000_000
	// DefaultRedisMaxIdle is the number of idle Redis connections kept open.
	DefaultRedisMaxIdle = 4
)

// AllEngines selects every registered engine and compares their digits.
const AllEngines = "all"

// supportedShells lists the shells -completion can generate scripts for.
var supportedShells = []string{"bash", "zsh", "fish"}

// AppConfig aggregates the parsed configuration of one picalc run.
type AppConfig struct {
	// Digits is the number of decimals of π to compute.
	Digits int
	// Threads is the number of workers the series is split across.
	Threads int
	// Engine is an engine name or "all".
	Engine string
	// ForkThreshold tunes the fork-join engine.
	ForkThreshold int
	// Stats prints timing statistics to stderr.
	Stats bool
	// Quiet suppresses the digits on stdout and every banner.
	Quiet bool
	// JSONOutput switches the output to JSON.
	JSONOutput bool
	// OutputFile, when set, also receives the digits.
	OutputFile string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// NoColor disables ANSI colors. NO_COLOR is honoured as well.
	NoColor bool
	// Verbose enables debug logging.
	Verbose bool

	// ServerMode starts the HTTP server instead of computing once.
	ServerMode bool
	// Port is the server listen port.
	Port string
	// MaxDigits caps the digits a server request may ask for.
	MaxDigits int
	// RedisAddr is the address of the Redis result cache; empty disables it.
	RedisAddr string
	// RedisTTL expires cached results; zero keeps them forever.
	RedisTTL time.Duration
	// RedisMaxIdle is the size of the idle Redis connection pool.
	RedisMaxIdle int

	// Completion, when set, prints a completion script for that shell.
	Completion string
}

// ToCalculationOptions converts the configuration into engine options.
func (c AppConfig) ToCalculationOptions() chudnovsky.Options {
	return chudnovsky.Options{ForkThreshold: c.ForkThreshold}
}

// Validate checks the configuration against the registered engine names.
// It returns a ConfigError describing the first problem found.
func (c AppConfig) Validate(availableEngines []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Digits < 0 {
		return apperrors.NewConfigError("number of digits cannot be negative: %d", c.Digits)
	}
	if c.Threads < 1 {
		return apperrors.NewConfigError("number of threads must be at least 1: %d", c.Threads)
	}
	if c.ForkThreshold < 0 {
		return apperrors.NewConfigError("fork threshold cannot be negative: %d", c.ForkThreshold)
	}
	if c.MaxDigits < 1 {
		return apperrors.NewConfigError("max digits must be at least 1: %d", c.MaxDigits)
	}
	if c.RedisTTL < 0 {
		return apperrors.NewConfigError("redis TTL cannot be negative: %s", c.RedisTTL)
	}
	if c.RedisMaxIdle < 0 {
		return apperrors.NewConfigError("redis max idle cannot be negative: %d", c.RedisMaxIdle)
	}
	if c.Engine != AllEngines && !slices.Contains(availableEngines, c.Engine) {
		return apperrors.NewConfigError("unrecognized engine: '%s'. Valid engines are: '%s' or [%s]",
			c.Engine, AllEngines, strings.Join(availableEngines, ", "))
	}
	if c.Completion != "" && !slices.Contains(supportedShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell for completion: '%s'. Supported: %s",
			c.Completion, strings.Join(supportedShells, ", "))
	}
	return nil
}

// ErrInvalidConfiguration is returned by ParseConfig after the validation
// error has been reported to the error writer.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ParseConfig parses args into an AppConfig. Flags take precedence over
// PICALC_* environment variables, which take precedence over the defaults.
//
// Parameters:
//   - programName: Used in the usage message.
//   - args: The arguments without the program name.
//   - errorWriter: Receives parse errors and the usage text.
//   - availableEngines: The engine names accepted by -engine.
//
// Returns:
//   - AppConfig: The validated configuration.
//   - error: flag.ErrHelp for -h, a parse error, or ErrInvalidConfiguration
//     wrapping the ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableEngines []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	engineHelp := fmt.Sprintf("Engine to use: '%s' (compare all) or one of [%s].", AllEngines, strings.Join(availableEngines, ", "))

	config := AppConfig{}
	fs.IntVar(&config.Digits, "digits", DefaultDigits, "Number of decimal digits of π to compute.")
	fs.IntVar(&config.Digits, "d", DefaultDigits, "Number of digits (shorthand).")
	fs.IntVar(&config.Threads, "threads", DefaultThreads, "Number of worker goroutines.")
	fs.IntVar(&config.Threads, "t", DefaultThreads, "Number of workers (shorthand).")
	fs.StringVar(&config.Engine, "engine", DefaultEngine, engineHelp)
	fs.IntVar(&config.ForkThreshold, "fork-threshold", chudnovsky.DefaultForkThreshold, "Minimum terms per range before the fork-join engine splits it.")
	fs.BoolVar(&config.Stats, "stats", false, "Print timing statistics to stderr.")
	fs.BoolVar(&config.Stats, "s", false, "Print statistics (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: no digits on stdout, no banners.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the digits to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging (shorthand).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxDigits, "max-digits", DefaultMaxDigits, "Largest number of digits a server request may ask for.")
	fs.StringVar(&config.RedisAddr, "redis", "", "Redis address (host:port) used to cache server results.")
	fs.DurationVar(&config.RedisTTL, "redis-ttl", 0, "Expiry of cached server results (0 keeps them forever).")
	fs.IntVar(&config.RedisMaxIdle, "redis-max-idle", DefaultRedisMaxIdle, "Idle Redis connections kept in the pool.")
	fs.StringVar(&config.Completion, "completion", "", "Generate a shell completion script (bash, zsh, fish).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Engine = strings.ToLower(config.Engine)
	config.Completion = strings.ToLower(config.Completion)
	if err := config.Validate(availableEngines); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return config, nil
}
