// Package cli is the melgar command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hray3182/melgar/internal/config"
	"github.com/hray3182/melgar/internal/duedate"
	"github.com/hray3182/melgar/internal/store"
	"github.com/hray3182/melgar/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app carries what the commands share once the store is open.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
	store      store.Store
	svc        *tracker.Service
	// now overrides the clock in tests.
	now func() time.Time
}

// noStore marks commands that run without configuration or a database.
const noStore = "no-store"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "melgar",
		Short: "A personal task, goal and notes tracker",
		Long: `melgar keeps your tasks, their progress log, a current goal and notes.
It reminds you about overdue tasks and blocks out calendar time for them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[noStore] != "" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newTaskCmd(a),
		newActionCmd(a),
		newGoalCmd(a),
		newNoteCmd(a),
		newHabitCmd(a),
		newActivityCmd(a),
		newEventsCmd(a),
		newNotifyCmd(a),
		newRunCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = mustMakeLogger(cfg.LogLevel)

	engine, err := duedate.New(cfg.Policy())
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.DatabaseURI, a.log)
	if err != nil {
		return err
	}
	a.store = st

	opts := []tracker.Option{
		tracker.WithLocation(cfg.Location()),
		tracker.WithGoalTargetDays(cfg.GoalTargetDays),
		tracker.WithActivityWindow(cfg.ActivityWindow),
		tracker.WithLogger(a.log),
	}
	if a.now != nil {
		opts = append(opts, tracker.WithClock(a.now))
	}
	a.svc = tracker.NewService(st, engine, opts...)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("failed to close store", "error", err)
		}
		a.store = nil
	}
}

func run(ctx context.Context, a *app, args []string, out io.Writer) error {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, &app{}, os.Args[1:], os.Stdout)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noStore: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "melgar %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
