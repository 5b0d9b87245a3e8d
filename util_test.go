package main

import (
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3 seconds"},
		{1 * time.Second, "1 second"},
		{2*time.Minute + 5*time.Second, "2 minutes, 5 seconds"},
		{time.Hour + time.Minute + time.Second, "1 hour, 1 minute, 1 second"},
		{26*time.Hour + 30*time.Minute, "26 hours, 30 minutes, 0 seconds"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1) != "" {
		t.Error("plural(1) should be empty")
	}
	if plural(0) != "s" || plural(2) != "s" {
		t.Error("plural(n != 1) should be s")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("MINTLE_TEST_INT", "42")
	if got := getEnvInt("MINTLE_TEST_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := getEnvInt("MINTLE_TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("got %d, want fallback 7", got)
	}
	t.Setenv("MINTLE_TEST_INT_BAD", "forty-two")
	if got := getEnvInt("MINTLE_TEST_INT_BAD", 7); got != 7 {
		t.Errorf("got %d, want fallback 7 on parse failure", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("MINTLE_TEST_DUR", "90s")
	if got := getEnvDuration("MINTLE_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("got %v, want 90s", got)
	}
	if got := getEnvDuration("MINTLE_TEST_DUR_UNSET", time.Minute); got != time.Minute {
		t.Errorf("got %v, want fallback 1m", got)
	}
}

func TestDirExists(t *testing.T) {
	if !dirExists(t.TempDir()) {
		t.Error("temp dir should exist")
	}
	if dirExists("definitely/not/a/real/path") {
		t.Error("missing path should not exist")
	}
}
