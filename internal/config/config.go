package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/hray3182/melgar/internal/activity"
	"github.com/hray3182/melgar/internal/duedate"
)

type Config struct {
	DatabaseURI string `yaml:"database_uri" env:"DATABASE_URI" env-default:"sqlite://melgar.db"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Timezone    string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/Lisbon"`

	ActivityWindow           int    `yaml:"activity_window" env:"ACTIVITY_WINDOW" env-default:"21"`
	SnoozeOffsets            []int  `yaml:"snooze_offsets" env:"SNOOZE_OFFSETS" env-default:"1,3,7,30"`
	ResetPolicy              string `yaml:"reset_policy" env:"RESET_POLICY" env-default:"any"`
	AllowCompletedReschedule bool   `yaml:"allow_completed_reschedule" env:"ALLOW_COMPLETED_RESCHEDULE" env-default:"false"`
	GoalTargetDays           int    `yaml:"goal_target_days" env:"GOAL_TARGET_DAYS" env-default:"30"`

	NotifyBackend  string `yaml:"notify_backend" env:"NOTIFY_BACKEND" env-default:"ntfy"`
	NtfyURL        string `yaml:"ntfy_url" env:"NTFY_URL" env-default:"https://ntfy.sh"`
	NtfyTopic      string `yaml:"ntfy_topic" env:"NTFY_TOPIC"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	EventHours    []float64     `yaml:"event_hours" env:"EVENT_HOURS" env-default:"13,18"`
	EventDuration time.Duration `yaml:"event_duration" env:"EVENT_DURATION" env-default:"30m"`
	CheckInterval time.Duration `yaml:"check_interval" env:"CHECK_INTERVAL" env-default:"1h"`

	AIAPIKey  string `yaml:"ai_api_key" env:"AI_API_KEY"`
	AIBaseURL string `yaml:"ai_base_url" env:"AI_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	AIModel   string `yaml:"ai_model" env:"AI_MODEL" env-default:"openai/gpt-4o-mini"`
}

const (
	NotifyNtfy     = "ntfy"
	NotifyTelegram = "telegram"
	NotifyNone     = "none"
)

// Load reads .env if present, then the YAML file at path, then the environment.
// A missing YAML file falls back to the environment alone.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, err := duedate.ParseResetPolicy(c.ResetPolicy); err != nil {
		return fmt.Errorf("invalid RESET_POLICY: %w", err)
	}
	for _, o := range c.SnoozeOffsets {
		if o <= 0 {
			return fmt.Errorf("invalid SNOOZE_OFFSETS: %d is not positive", o)
		}
	}
	if c.ActivityWindow < 1 || c.ActivityWindow > activity.MaxWindow {
		return fmt.Errorf("invalid ACTIVITY_WINDOW %d: must be between 1 and %d", c.ActivityWindow, activity.MaxWindow)
	}
	if c.GoalTargetDays < 1 {
		return fmt.Errorf("invalid GOAL_TARGET_DAYS %d: must be at least 1", c.GoalTargetDays)
	}
	for _, h := range c.EventHours {
		if h < 0 || h >= 24 {
			return fmt.Errorf("invalid EVENT_HOURS: %v is not an hour of the day", h)
		}
	}
	switch strings.ToLower(c.NotifyBackend) {
	case NotifyNtfy, NotifyTelegram, NotifyNone:
	default:
		return fmt.Errorf("invalid NOTIFY_BACKEND %q", c.NotifyBackend)
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Policy builds the due-date policy from the reschedule settings.
func (c *Config) Policy() duedate.Policy {
	reset, _ := duedate.ParseResetPolicy(c.ResetPolicy)
	return duedate.Policy{
		Offsets:        c.SnoozeOffsets,
		Reset:          reset,
		AllowCompleted: c.AllowCompletedReschedule,
	}
}
