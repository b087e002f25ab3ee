package config

import (
	"io"
	"testing"
	"time"
)

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PICALC_DIGITS":         "2_000",
		"PICALC_THREADS":        "4",
		"PICALC_ENGINE":         "forkjoin",
		"PICALC_STATS":          "yes",
		"PICALC_QUIET":          "1",
		"PICALC_JSON":           "TRUE",
		"PICALC_OUTPUT":         "/tmp/pi.txt",
		"PICALC_TIMEOUT":        "2m",
		"PICALC_NO_COLOR":       "true",
		"PICALC_VERBOSE":        "true",
		"PICALC_SERVER":         "true",
		"PICALC_PORT":           "3000",
		"PICALC_MAX_DIGITS":     "10000",
		"PICALC_REDIS":          "cache:6379",
		"PICALC_REDIS_TTL":      "30m",
		"PICALC_REDIS_MAX_IDLE": "8",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := ParseConfig("picalc", nil, io.Discard, engines)
	if err != nil {
		t.Fatal(err)
	}
	want := AppConfig{
		Digits:        2000,
		Threads:       4,
		Engine:        "forkjoin",
		ForkThreshold: 256,
		Stats:         true,
		Quiet:         true,
		JSONOutput:    true,
		OutputFile:    "/tmp/pi.txt",
		Timeout:       2 * time.Minute,
		NoColor:       true,
		Verbose:       true,
		ServerMode:    true,
		Port:          "3000",
		MaxDigits:     10000,
		RedisAddr:     "cache:6379",
		RedisTTL:      30 * time.Minute,
		RedisMaxIdle:  8,
	}
	if cfg != want {
		t.Errorf("config = %+v\nwant   %+v", cfg, want)
	}
}

func TestEnvOverrides_FlagsWin(t *testing.T) {
	t.Setenv("PICALC_DIGITS", "500")
	t.Setenv("PICALC_THREADS", "9")
	t.Setenv("PICALC_QUIET", "true")

	cfg, err := ParseConfig("picalc", []string{"-d", "20", "-threads", "2", "-q=false"}, io.Discard, engines)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Digits != 20 || cfg.Threads != 2 || cfg.Quiet {
		t.Errorf("flags must take precedence over the environment: %+v", cfg)
	}
}

func TestEnvOverrides_Malformed(t *testing.T) {
	t.Setenv("PICALC_THREADS", "many")
	t.Setenv("PICALC_TIMEOUT", "soon")
	t.Setenv("PICALC_STATS", "maybe")

	cfg, err := ParseConfig("picalc", nil, io.Discard, engines)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads != DefaultThreads || cfg.Timeout != DefaultTimeout || cfg.Stats {
		t.Errorf("malformed values must fall back to defaults: %+v", cfg)
	}
}
