package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns PICALC_<key> parsed as an int, or defaultVal when the
// variable is unset or malformed.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(strings.ReplaceAll(val, "_", "")); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every field whose flag was not given from its
// environment variable:
//
//	PICALC_DIGITS, PICALC_THREADS, PICALC_ENGINE, PICALC_FORK_THRESHOLD,
//	PICALC_STATS, PICALC_QUIET, PICALC_JSON, PICALC_OUTPUT, PICALC_TIMEOUT,
//	PICALC_NO_COLOR, PICALC_VERBOSE, PICALC_SERVER, PICALC_PORT,
//	PICALC_MAX_DIGITS, PICALC_REDIS, PICALC_REDIS_TTL, PICALC_REDIS_MAX_IDLE
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	ints := []struct {
		key   string
		flags []string
		dst   *int
	}{
		{"DIGITS", []string{"digits", "d"}, &config.Digits},
		{"THREADS", []string{"threads", "t"}, &config.Threads},
		{"FORK_THRESHOLD", []string{"fork-threshold"}, &config.ForkThreshold},
		{"MAX_DIGITS", []string{"max-digits"}, &config.MaxDigits},
		{"REDIS_MAX_IDLE", []string{"redis-max-idle"}, &config.RedisMaxIdle},
	}
	for _, o := range ints {
		if !isFlagSet(fs, o.flags...) {
			*o.dst = getEnvInt(o.key, *o.dst)
		}
	}

	strs := []struct {
		key   string
		flags []string
		dst   *string
	}{
		{"ENGINE", []string{"engine"}, &config.Engine},
		{"OUTPUT", []string{"output", "o"}, &config.OutputFile},
		{"PORT", []string{"port"}, &config.Port},
		{"REDIS", []string{"redis"}, &config.RedisAddr},
	}
	for _, o := range strs {
		if !isFlagSet(fs, o.flags...) {
			*o.dst = getEnvString(o.key, *o.dst)
		}
	}

	bools := []struct {
		key   string
		flags []string
		dst   *bool
	}{
		{"STATS", []string{"stats", "s"}, &config.Stats},
		{"QUIET", []string{"quiet", "q"}, &config.Quiet},
		{"JSON", []string{"json"}, &config.JSONOutput},
		{"NO_COLOR", []string{"no-color"}, &config.NoColor},
		{"VERBOSE", []string{"verbose", "v"}, &config.Verbose},
		{"SERVER", []string{"server"}, &config.ServerMode},
	}
	for _, o := range bools {
		if !isFlagSet(fs, o.flags...) {
			*o.dst = getEnvBool(o.key, *o.dst)
		}
	}

	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "redis-ttl") {
		config.RedisTTL = getEnvDuration("REDIS_TTL", config.RedisTTL)
	}
}
