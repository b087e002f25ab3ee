package main

import "testing"

func TestMachinPi(t *testing.T) {
	t.Parallel()
	const want = "3.14159265358979323846264338327950288419716939937510"
	if got := machinPi(50); got != want {
		t.Fatalf("machinPi(50) = %s; want %s", got, want)
	}
	if got := machinPi(1); got != "3.1" {
		t.Errorf("machinPi(1) = %s", got)
	}
}

func TestParseCounts(t *testing.T) {
	t.Parallel()
	got, err := parseCounts("1, 10,50")
	if err != nil || len(got) != 3 || got[1] != 10 {
		t.Errorf("parseCounts = %v, %v", got, err)
	}
	for _, bad := range []string{"", "0", "x", "1,,2"} {
		if _, err := parseCounts(bad); err == nil {
			t.Errorf("parseCounts(%q) should fail", bad)
		}
	}
}
