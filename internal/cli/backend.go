package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hray3182/melgar/internal/config"
	"github.com/hray3182/melgar/internal/database"
	"github.com/hray3182/melgar/internal/notify"
	"github.com/hray3182/melgar/internal/repository"
	"github.com/hray3182/melgar/internal/sqlitestore"
	"github.com/hray3182/melgar/internal/store"
)

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore picks the backend from the URI scheme: postgres:// or
// postgresql:// for PostgreSQL, sqlite:// followed by a file path for SQLite.
func openStore(ctx context.Context, uri string, log *slog.Logger) (store.Store, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		db, err := database.New(ctx, uri)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, log); err != nil {
			db.Close()
			return nil, err
		}
		log.Debug("connected to postgres")
		return repository.NewStore(db), nil

	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("DATABASE_URI %q has no file path", uri)
		}
		st, err := sqlitestore.Open(path)
		if err != nil {
			return nil, err
		}
		log.Debug("opened sqlite database", "path", path)
		return st, nil

	default:
		return nil, fmt.Errorf("unsupported DATABASE_URI %q: use sqlite:// or postgres://", uri)
	}
}

// newSender builds the reminder sender for cfg. Successful sends are recorded in st.
func newSender(cfg *config.Config, st store.Store, log *slog.Logger) (notify.Sender, error) {
	switch strings.ToLower(cfg.NotifyBackend) {
	case config.NotifyNone:
		return notify.Nop{}, nil

	case config.NotifyTelegram:
		if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
			return nil, fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID are required for the telegram backend")
		}
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		return notify.New(tg, st, log), nil

	default:
		ntfy, err := notify.NewNtfy(cfg.NtfyURL, cfg.NtfyTopic, nil)
		if err != nil {
			return nil, fmt.Errorf("%w (set NTFY_TOPIC or NOTIFY_BACKEND=none)", err)
		}
		return notify.New(ntfy, st, log), nil
	}
}
