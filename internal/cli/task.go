package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hray3182/melgar/internal/ai"
	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/duedate"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/tracker"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id '%s'", s)
	}
	return id, nil
}

// parseDate accepts 2006-01-02 or 02/01/2006.
func parseDate(s string) (*dates.Date, error) {
	if s == "" {
		return nil, nil
	}
	if d, err := dates.Parse(s); err == nil {
		return &d, nil
	}
	d, err := dates.ParseDisplay(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s': use dd/mm/yyyy or yyyy-mm-dd", s)
	}
	return &d, nil
}

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskDoneCmd(a),
		newTaskDeleteCmd(a),
		newTaskSnoozeCmd(a),
		newTaskResetCmd(a),
		newTaskNextCmd(a),
		newTaskPriorityCmd(a),
		newTaskNotifyCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		due      string
		next     string
		linkGoal bool
		priority bool
		useAI    bool
	)
	cmd := &cobra.Command{
		Use:   "add [description]",
		Short: "Add a task",
		Long: `Add a task. With --ai the description is free text and the due date,
next action and priority are worked out by the configured language model.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := strings.Join(args, " ")

			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}

			if useAI {
				draft, err := a.draftTask(ctx, description)
				if err != nil {
					return err
				}
				description = draft.Description
				if dueDate == nil {
					dueDate = draft.DueDate
				}
				if next == "" {
					next = draft.NextAction
				}
				priority = priority || draft.Priority
			}

			task, err := a.svc.AddTask(ctx, tracker.NewTask{
				Description: description,
				DueDate:     dueDate,
				NextAction:  next,
				Priority:    priority,
				LinkGoal:    linkGoal,
			})
			if err != nil {
				return err
			}

			v := newView(cmd.OutOrStdout())
			v.printf("Added task %s\n", v.taskLine(task, a.svc.Today()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date (dd/mm/yyyy or yyyy-mm-dd)")
	cmd.Flags().StringVarP(&next, "next", "n", "", "next action")
	cmd.Flags().BoolVarP(&linkGoal, "goal", "g", false, "link the task to the current goal")
	cmd.Flags().BoolVarP(&priority, "priority", "p", false, "mark as priority")
	cmd.Flags().BoolVar(&useAI, "ai", false, "parse the description with the language model")
	return cmd
}

func (a *app) draftTask(ctx context.Context, text string) (*ai.TaskDraft, error) {
	if a.cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is not set")
	}
	client := ai.New(a.cfg.AIAPIKey, a.cfg.AIBaseURL, a.cfg.AIModel)
	draft, err := client.ParseTask(ctx, text, a.svc.Today())
	if err != nil {
		return nil, err
	}
	a.log.Debug("ai task draft", "response", draft.RawResponse)
	return draft, nil
}

func newTaskListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, pending first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.svc.Tasks(cmd.Context(), all)
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).tasks(tasks, a.svc.Today())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show a task and its action history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, actions, err := a.svc.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			newView(cmd.OutOrStdout()).task(task, actions, a.svc.Today())
			return nil
		},
	}
}

func newTaskDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done [task-id]",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.svc.ToggleTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			v := newView(cmd.OutOrStdout())
			if task.Completed {
				v.printf("Marked task #%d as done: %s\n", task.ID, task.Description)
			} else {
				v.printf("Marked task #%d as pending: %s\n", task.ID, task.Description)
			}
			return nil
		},
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [task-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its actions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

func newTaskSnoozeCmd(a *app) *cobra.Command {
	var action, next string
	cmd := &cobra.Command{
		Use:   "snooze [task-id] [days]",
		Short: "Push a task's due date back",
		Long: `Push a task's due date back by one of the configured snooze offsets
(by default 1, 3, 7 or 30 days), logging what was done as an action. Without days the offsets are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				for _, o := range a.svc.SnoozeOffsets() {
					fmt.Fprintf(cmd.OutOrStdout(), "melgar task snooze %d %d -m \"...\"   %s\n", id, o, duedate.Describe(o))
				}
				return nil
			}
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid number of days '%s'", args[1])
			}
			task, err := a.svc.Snooze(cmd.Context(), id, days, action, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snoozed task #%d by %s, now due %s\n", task.ID, duedate.Describe(days), dates.DisplayOf(task.DueDate))
			return nil
		},
	}
	cmd.Flags().StringVarP(&action, "action", "m", "", "what was done on the task (required)")
	cmd.Flags().StringVarP(&next, "next", "n", "", "replace the next action")
	return cmd
}

func newTaskResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [task-id]",
		Short: "Set a task's due date to today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.svc.ResetDueDate(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now due %s\n", task.ID, dates.DisplayOf(task.DueDate))
			return nil
		},
	}
}

func newTaskNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next [task-id] [next action]",
		Short: "Set a task's next action",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.svc.SetNextAction(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if task.NextAction == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared next action of task #%d\n", task.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Next action of task #%d: %s\n", task.ID, task.NextAction)
			}
			return nil
		},
	}
}

func newTaskPriorityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "priority [task-id]",
		Short: "Toggle a task's priority, or show the priority task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.OutOrStdout())
			if len(args) == 0 {
				task, err := a.svc.PriorityTask(cmd.Context())
				if errors.Is(err, models.ErrTaskNotFound) {
					v.printf("No priority task.\n")
					return nil
				}
				if err != nil {
					return err
				}
				v.printf("%s\n", v.taskLine(task, a.svc.Today()))
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.svc.TogglePriority(cmd.Context(), id)
			if err != nil {
				return err
			}
			if task.Priority {
				v.printf("Task #%d is now a priority\n", task.ID)
			} else {
				v.printf("Task #%d is no longer a priority\n", task.ID)
			}
			return nil
		},
	}
}

func newTaskNotifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notify [task-id]",
		Short: "Send the reminder for one task now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.svc.Task(cmd.Context(), id)
			if err != nil {
				return err
			}
			sender, err := newSender(a.cfg, a.store, a.log)
			if err != nil {
				return err
			}
			out := sender.Send(cmd.Context(), task, a.svc.Today())
			if out.Reason != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d: %s (%s)\n", task.ID, out.Status, out.Reason)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d: %s\n", task.ID, out.Status)
			}
			return nil
		},
	}
}
