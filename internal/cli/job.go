package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hray3182/melgar/internal/calendar"
	"github.com/hray3182/melgar/internal/scheduler"
)

func newActivityCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := a.svc.Activity(cmd.Context(), days)
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).heatmap(window)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to show (default ACTIVITY_WINDOW)")
	return cmd
}

func newEventsCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List calendar events booked for tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			loc := a.cfg.Location()
			from := a.svc.Today().Time(loc)
			events, err := a.store.EventsBetween(cmd.Context(), from, from.AddDate(0, 0, days))
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).events(events, loc)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "how many days ahead to list, starting today")
	return cmd
}

func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sender, err := newSender(a.cfg, a.store, a.log)
	if err != nil {
		return nil, err
	}
	creator := calendar.NewStoreCreator(a.store, a.cfg.EventDuration)
	cfg := scheduler.Config{
		EventHours:    a.cfg.EventHours,
		CheckInterval: a.cfg.CheckInterval,
		Location:      a.cfg.Location(),
		Now:           a.now,
	}
	return scheduler.New(a.svc, sender, creator, cfg, a.log), nil
}

func newNotifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Run the overdue job once",
		Long: `Create tasks for due habits, send a reminder for every overdue task and
book calendar time for the priority ones (or all of them when none is a priority).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newScheduler()
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).report(s.RunOnce(cmd.Context()))
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the overdue job every CHECK_INTERVAL until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newScheduler()
			if err != nil {
				return err
			}
			started := time.Now()
			s.Start(cmd.Context())
			a.log.Info("shutting down", "uptime", time.Since(started).Round(time.Second))
			return nil
		},
	}
}
