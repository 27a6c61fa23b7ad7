package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/hray3182/melgar/internal/duedate"
)

// chdirTemp keeps a developer's .env out of the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURI != "sqlite://melgar.db" || cfg.Timezone != "Europe/Lisbon" || cfg.NotifyBackend != NotifyNtfy {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ActivityWindow != 21 || cfg.GoalTargetDays != 30 {
		t.Fatalf("window=%d goal days=%d", cfg.ActivityWindow, cfg.GoalTargetDays)
	}
	if !slices.Equal(cfg.SnoozeOffsets, []int{1, 3, 7, 30}) {
		t.Fatalf("offsets = %v", cfg.SnoozeOffsets)
	}
	if !slices.Equal(cfg.EventHours, []float64{13, 18}) {
		t.Fatalf("event hours = %v", cfg.EventHours)
	}
	if cfg.EventDuration != 30*time.Minute || cfg.CheckInterval != time.Hour {
		t.Fatalf("duration=%v interval=%v", cfg.EventDuration, cfg.CheckInterval)
	}
	if p := cfg.Policy(); p.Reset != duedate.ResetAny || p.AllowCompleted {
		t.Fatalf("policy = %+v", p)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SNOOZE_OFFSETS", "2,5")
	t.Setenv("EVENT_HOURS", "9.5,17")
	t.Setenv("RESET_POLICY", "overdue-only")
	t.Setenv("ALLOW_COMPLETED_RESCHEDULE", "true")
	t.Setenv("NOTIFY_BACKEND", "none")
	t.Setenv("CHECK_INTERVAL", "15m")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(cfg.SnoozeOffsets, []int{2, 5}) || !slices.Equal(cfg.EventHours, []float64{9.5, 17}) {
		t.Fatalf("offsets=%v hours=%v", cfg.SnoozeOffsets, cfg.EventHours)
	}
	if cfg.CheckInterval != 15*time.Minute || cfg.Location() != time.UTC {
		t.Fatalf("interval=%v loc=%v", cfg.CheckInterval, cfg.Location())
	}
	p := cfg.Policy()
	if p.Reset != duedate.ResetOverdueOnly || !p.AllowCompleted {
		t.Fatalf("policy = %+v", p)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "melgar.yml")
	body := "database_uri: postgres://localhost/melgar\nactivity_window: 14\nntfy_topic: chores\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURI != "postgres://localhost/melgar" || cfg.ActivityWindow != 14 || cfg.NtfyTopic != "chores" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("NTFY_TOPIC", "from-env")

	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NtfyTopic != "from-env" {
		t.Fatalf("topic = %q", cfg.NtfyTopic)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GOAL_TARGET_DAYS=45\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// godotenv sets the variable process-wide; register it so it is restored.
	t.Setenv("GOAL_TARGET_DAYS", "")
	os.Unsetenv("GOAL_TARGET_DAYS")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GoalTargetDays != 45 {
		t.Fatalf("goal days = %d", cfg.GoalTargetDays)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timezone", "TIMEZONE", "Mars/Olympus"},
		{"reset policy", "RESET_POLICY", "sometimes"},
		{"offsets", "SNOOZE_OFFSETS", "1,0"},
		{"window", "ACTIVITY_WINDOW", "0"},
		{"huge window", "ACTIVITY_WINDOW", "1099511627776"},
		{"event hour", "EVENT_HOURS", "25"},
		{"backend", "NOTIFY_BACKEND", "pigeon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(""); err == nil {
				t.Fatalf("%s=%s accepted", tc.key, tc.value)
			}
		})
	}
}
