package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		def  time.Duration
		want time.Duration
	}{
		{"", time.Hour, time.Hour},
		{"30s", time.Hour, 30 * time.Second},
		{"garbage", time.Hour, time.Hour},
		{"off", time.Hour, -1},
	}
	for _, tc := range cases {
		if got := ParseDuration(tc.in, tc.def); got != tc.want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGetEnvDefaults(t *testing.T) {
	t.Setenv("SUPPLYWATCH_TEST_KEY", "set")
	if got := getEnv("SUPPLYWATCH_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("expected env value, got %q", got)
	}
	if got := getEnv("SUPPLYWATCH_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("SUPPLYWATCH_TEST_INT", "12")
	if got := getEnvInt("SUPPLYWATCH_TEST_INT", 5); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	t.Setenv("SUPPLYWATCH_TEST_INT", "not-a-number")
	if got := getEnvInt("SUPPLYWATCH_TEST_INT", 5); got != 5 {
		t.Fatalf("invalid int should fall back, got %d", got)
	}
}
