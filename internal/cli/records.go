package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/rrule"
)

func newActionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Log progress on a task",
	}

	var snooze int
	add := &cobra.Command{
		Use:   "add [task-id] [description]",
		Short: "Record an action on a task, optionally snoozing it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			action, err := a.svc.AddAction(cmd.Context(), taskID, strings.Join(args[1:], " "), snooze)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added action #%d to task #%d\n", action.ID, taskID)
			return nil
		},
	}
	add.Flags().IntVarP(&snooze, "snooze", "s", 0, "also push the due date back by this many days")

	del := &cobra.Command{
		Use:     "delete [action-id]",
		Aliases: []string{"rm"},
		Short:   "Delete an action",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			remaining, err := a.svc.DeleteAction(cmd.Context(), id)
			if err != nil {
				return err
			}
			v := newView(cmd.OutOrStdout())
			v.printf("Deleted action #%d\n", id)
			v.actions(remaining)
			return nil
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or change the current goal",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := a.svc.CurrentGoal(cmd.Context())
			if errors.Is(err, models.ErrGoalNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No current goal. Use 'melgar goal set \"description\"' to start one.")
				return nil
			}
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).goal(goal)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set [description]",
		Short: "Rename the current goal, or start a new one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := a.svc.SetGoal(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).goal(goal)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete [goal-id]",
		Short: "Mark a goal as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			goal, err := a.svc.CompleteGoal(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed goal #%d on %s: %s\n", goal.ID, dates.DisplayOf(goal.CompletionDate), goal.Description)
			return nil
		},
	}

	cmd.AddCommand(show, set, complete)
	return cmd
}

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	var addType string
	add := &cobra.Command{
		Use:   "add [title] [text]",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.svc.AddNote(cmd.Context(), args[0], strings.Join(args[1:], " "), addType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note #%d: %s\n", note.ID, note.Title)
			return nil
		},
	}
	add.Flags().StringVarP(&addType, "type", "t", models.DefaultNoteType, "note type")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.svc.Notes(cmd.Context())
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).notes(notes)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [note-id]",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := a.svc.Note(cmd.Context(), id)
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).note(note)
			return nil
		},
	}

	var editTitle, editBody, editType string
	edit := &cobra.Command{
		Use:   "edit [note-id]",
		Short: "Change a note's title, text or type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := a.svc.Note(cmd.Context(), id)
			if err != nil {
				return err
			}

			title, body, typ := note.Title, note.Body, note.Type
			if cmd.Flags().Changed("title") {
				title = editTitle
			}
			if cmd.Flags().Changed("text") {
				body = editBody
			}
			if cmd.Flags().Changed("type") {
				typ = editType
			}
			if note, err = a.svc.UpdateNote(cmd.Context(), id, title, body, typ); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note #%d: %s\n", note.ID, note.Title)
			return nil
		},
	}
	edit.Flags().StringVar(&editTitle, "title", "", "new title")
	edit.Flags().StringVar(&editBody, "text", "", "new text")
	edit.Flags().StringVarP(&editType, "type", "t", "", "new type")

	del := &cobra.Command{
		Use:     "delete [note-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteNote(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note #%d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, show, edit, del)
	return cmd
}

func newHabitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage recurring habits",
	}

	var (
		rule     string
		every    string
		interval int
		on       string
		count    int
		start    string
	)
	add := &cobra.Command{
		Use:   "add [description]",
		Short: "Add a habit",
		Long: `Add a habit. The overdue job keeps one pending task per habit, due on
the habit's next occurrence. Give the recurrence either as a raw RRULE
(--rule "FREQ=WEEKLY;BYDAY=MO") or with --every, --interval and --on.`,
		Example: `  melgar habit add "water the plants" --every weekly --on MO,TH
  melgar habit add "pay rent" --rule "FREQ=MONTHLY;BYMONTHDAY=1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rule == "" {
				built, err := buildRule(every, interval, on, count)
				if err != nil {
					return err
				}
				rule = built
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			habit, err := a.svc.AddHabit(cmd.Context(), strings.Join(args, " "), rule, startDate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit #%d: %s (%s)\n", habit.ID, habit.Description, rrule.HumanReadable(habit.RecurrenceRule))
			return nil
		},
	}
	add.Flags().StringVar(&rule, "rule", "", "RFC 5545 recurrence rule")
	add.Flags().StringVar(&every, "every", "daily", "daily, weekly, monthly or yearly")
	add.Flags().IntVar(&interval, "interval", 1, "repeat every N periods")
	add.Flags().StringVar(&on, "on", "", "weekdays, e.g. MO,TH")
	add.Flags().IntVar(&count, "count", 0, "stop after N occurrences")
	add.Flags().StringVar(&start, "start", "", "first day (dd/mm/yyyy or yyyy-mm-dd), default today")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			habits, err := a.svc.Habits(cmd.Context())
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).habits(habits)
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete [habit-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a habit; its tasks are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteHabit(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit #%d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func buildRule(every string, interval int, on string, count int) (string, error) {
	freq, err := rrule.ParseFreq(every)
	if err != nil {
		return "", err
	}
	days, err := rrule.ParseWeekdays(on)
	if err != nil {
		return "", err
	}
	b := rrule.Builder{Freq: freq, Interval: interval, ByWeekday: days, Count: count}
	return b.String(), nil
}
