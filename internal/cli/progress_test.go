package cli

import (
	"strings"
	"testing"
	"time"
)

func TestProgressState(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(2)
	ps.Update(0, 0.5)
	ps.Update(1, 1.0)
	ps.Update(5, 1.0)
	ps.Update(-1, 1.0)
	if got := ps.CalculateAverage(); got != 0.75 {
		t.Errorf("CalculateAverage() = %v; want 0.75", got)
	}
	if got := NewProgressState(0).CalculateAverage(); got != 0 {
		t.Errorf("empty CalculateAverage() = %v; want 0", got)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{3 * time.Minute, "3m"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q; want %q", tt.eta, got, tt.want)
		}
	}
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	p := NewProgressWithETA(1)
	p.now = func() time.Time { return clock }
	p.startTime, p.lastUpdate = start, start

	if _, eta := p.UpdateWithETA(0, 0.1); eta != 0 {
		t.Errorf("ETA before warm-up = %v; want 0", eta)
	}

	clock = start.Add(10 * time.Second)
	progress, eta := p.UpdateWithETA(0, 0.5)
	if progress != 0.5 {
		t.Fatalf("progress = %v; want 0.5", progress)
	}
	// 0.5 in 10s gives 0.05/s, so 0.5 remaining takes 10s.
	if eta != 10*time.Second {
		t.Errorf("ETA = %v; want 10s", eta)
	}

	clock = start.Add(20 * time.Second)
	if _, eta := p.UpdateWithETA(0, 1.0); eta != 0 {
		t.Errorf("ETA at completion = %v; want 0", eta)
	}
}

func TestProgressWithETA_Capped(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	p.Update(0, 0.01)
	p.rate = 1e-9
	if got := p.GetETA(); got != maxETA {
		t.Errorf("GetETA() = %v; want %v", got, maxETA)
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 42*time.Second, 4)
	if !strings.HasPrefix(got, " 50.00% [██░░]") || !strings.HasSuffix(got, "ETA: 42s") {
		t.Errorf("FormatProgressBarWithETA = %q", got)
	}
}
