package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/duedate"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/sqlitestore"
)

var today = dates.New(2024, time.March, 10)

func newTestService(t *testing.T, policy duedate.Policy) (*sqlitestore.Store, *Service) {
	t.Helper()

	st, err := sqlitestore.Open(sqlitestore.MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	engine, err := duedate.New(policy)
	if err != nil {
		t.Fatalf("duedate.New: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC) }
	return st, NewService(st, engine, WithClock(clock), WithLocation(time.UTC))
}

func mustAddTask(t *testing.T, svc *Service, description string, due *dates.Date) *models.Task {
	t.Helper()

	task, err := svc.AddTask(context.Background(), NewTask{Description: description, DueDate: due})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func datePtr(d dates.Date) *dates.Date {
	return &d
}

func TestAddTask_EmptyDescription(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})

	_, err := svc.AddTask(context.Background(), NewTask{Description: "   "})
	if !errors.Is(err, models.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestAddTask_LinksCurrentGoal(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()

	task, err := svc.AddTask(ctx, NewTask{Description: "no goal yet", LinkGoal: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.GoalID != nil {
		t.Fatalf("expected no goal link without a current goal")
	}

	goal, err := svc.SetGoal(ctx, "ship v1")
	if err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	task, err = svc.AddTask(ctx, NewTask{Description: "write docs", LinkGoal: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.GoalID == nil || *task.GoalID != goal.ID {
		t.Fatalf("expected goal %d, got %v", goal.ID, task.GoalID)
	}
}

func TestAddTask_WithNextActionAndPriority(t *testing.T) {
	st, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()

	task, err := svc.AddTask(ctx, NewTask{
		Description: "renew passport",
		DueDate:     datePtr(today.AddDays(5)),
		NextAction:  "  book appointment ",
		Priority:    true,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	stored, err := st.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.NextAction != "book appointment" || !stored.Priority {
		t.Fatalf("stored task = %+v", stored)
	}
	if stored.DueDate == nil || !stored.DueDate.Equal(today.AddDays(5)) {
		t.Fatalf("due = %v", stored.DueDate)
	}

	// Priority is set, not toggled: a second priority task is also a priority.
	other, err := svc.AddTask(ctx, NewTask{Description: "file taxes", Priority: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if !other.Priority {
		t.Fatalf("second priority task lost its flag")
	}
}

func TestToggleTask_CompletionDateFollowsState(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "water plants", datePtr(today))

	done, err := svc.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !done.Completed || done.CompletionDate == nil || !done.CompletionDate.Equal(today) {
		t.Fatalf("completed task = %+v", done)
	}

	reopened, err := svc.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if reopened.Completed || reopened.CompletionDate != nil {
		t.Fatalf("reopened task = %+v", reopened)
	}

	stored, err := svc.Task(ctx, task.ID)
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if stored.Completed || stored.CompletionDate != nil {
		t.Fatalf("stored task = %+v", stored)
	}

	if _, err := svc.ToggleTask(ctx, 999); !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSnooze_UpdatesDueDateNextActionAndLog(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "call bank", datePtr(today.AddDays(-2)))

	snoozed, err := svc.Snooze(ctx, task.ID, 7, "left voicemail", "call again")
	if err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	if want := today.AddDays(5); !snoozed.DueDate.Equal(want) {
		t.Fatalf("due = %v, want %v", snoozed.DueDate, want)
	}

	stored, actions, err := svc.History(ctx, task.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if stored.NextAction != "call again" {
		t.Fatalf("next action = %q", stored.NextAction)
	}
	if len(actions) != 1 || actions[0].Description != "left voicemail" || !actions[0].Date.Equal(today) {
		t.Fatalf("actions = %+v", actions)
	}
}

func TestSnooze_NoDueDateCountsFromToday(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	task := mustAddTask(t, svc, "someday", nil)

	snoozed, err := svc.Snooze(context.Background(), task.ID, 3, "thought about it", "")
	if err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	if !snoozed.DueDate.Equal(today.AddDays(3)) {
		t.Fatalf("due = %v", snoozed.DueDate)
	}
}

func TestSnooze_InvalidOffsetChangesNothing(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	due := today.AddDays(1)
	task := mustAddTask(t, svc, "x", &due)

	_, err := svc.Snooze(ctx, task.ID, 5, "tried", "new next")
	if !errors.Is(err, duedate.ErrInvalidSnooze) {
		t.Fatalf("expected ErrInvalidSnooze, got %v", err)
	}

	stored, actions, err := svc.History(ctx, task.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if !stored.DueDate.Equal(due) || stored.NextAction != "" || len(actions) != 0 {
		t.Fatalf("task mutated: %+v, actions %+v", stored, actions)
	}
}

func TestSnooze_RequiresAction(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	task := mustAddTask(t, svc, "x", nil)

	if _, err := svc.Snooze(context.Background(), task.ID, 1, " ", ""); !errors.Is(err, models.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestSnooze_CompletedTaskPolicy(t *testing.T) {
	ctx := context.Background()

	_, strict := newTestService(t, duedate.Policy{})
	task := mustAddTask(t, strict, "x", datePtr(today))
	if _, err := strict.ToggleTask(ctx, task.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if _, err := strict.Snooze(ctx, task.ID, 1, "a", ""); !errors.Is(err, duedate.ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted, got %v", err)
	}

	_, lenient := newTestService(t, duedate.Policy{AllowCompleted: true})
	task = mustAddTask(t, lenient, "x", datePtr(today))
	if _, err := lenient.ToggleTask(ctx, task.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if _, err := lenient.Snooze(ctx, task.ID, 1, "a", ""); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
}

func TestResetDueDate(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "overdue", datePtr(today.AddDays(-4)))

	reset, err := svc.ResetDueDate(ctx, task.ID)
	if err != nil {
		t.Fatalf("ResetDueDate: %v", err)
	}
	if !reset.DueDate.Equal(today) {
		t.Fatalf("due = %v", reset.DueDate)
	}

	actions, err := svc.Actions(ctx, task.ID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 1 || actions[0].Description != "Reset due date to today" {
		t.Fatalf("actions = %+v", actions)
	}
}

func TestResetDueDate_OverdueOnlyPolicy(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{Reset: duedate.ResetOverdueOnly})
	ctx := context.Background()
	task := mustAddTask(t, svc, "upcoming", datePtr(today.AddDays(2)))

	if _, err := svc.ResetDueDate(ctx, task.ID); !errors.Is(err, duedate.ErrResetNotAllowed) {
		t.Fatalf("expected ErrResetNotAllowed, got %v", err)
	}
	actions, err := svc.Actions(ctx, task.ID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("rejected reset logged an action: %+v", actions)
	}
}

func TestAddAction_WithSnooze(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "x", datePtr(today))

	if _, err := svc.AddAction(ctx, task.ID, "progress", 30); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	stored, err := svc.Task(ctx, task.ID)
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if !stored.DueDate.Equal(today.AddDays(30)) {
		t.Fatalf("due = %v", stored.DueDate)
	}

	if _, err := svc.AddAction(ctx, task.ID, "more", 2); !errors.Is(err, duedate.ErrInvalidSnooze) {
		t.Fatalf("expected ErrInvalidSnooze, got %v", err)
	}
	actions, err := svc.Actions(ctx, task.ID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("failed snooze kept its action: %+v", actions)
	}

	if _, err := svc.AddAction(ctx, 999, "x", 0); !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteAction_ReturnsRemaining(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "x", nil)

	first, err := svc.AddAction(ctx, task.ID, "first", 0)
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if _, err := svc.AddAction(ctx, task.ID, "second", 0); err != nil {
		t.Fatalf("AddAction: %v", err)
	}

	remaining, err := svc.DeleteAction(ctx, first.ID)
	if err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Description != "second" {
		t.Fatalf("remaining = %+v", remaining)
	}
	if _, err := svc.DeleteAction(ctx, first.ID); !errors.Is(err, models.ErrActionNotFound) {
		t.Fatalf("expected ErrActionNotFound, got %v", err)
	}
}

func TestTogglePriorityAndPriorityTask(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "x", nil)

	if _, err := svc.PriorityTask(ctx); !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.TogglePriority(ctx, task.ID); err != nil {
		t.Fatalf("TogglePriority: %v", err)
	}
	got, err := svc.PriorityTask(ctx)
	if err != nil {
		t.Fatalf("PriorityTask: %v", err)
	}
	if got.ID != task.ID {
		t.Fatalf("priority task = %+v", got)
	}

	updated, err := svc.SetNextAction(ctx, task.ID, "  draft outline  ")
	if err != nil {
		t.Fatalf("SetNextAction: %v", err)
	}
	if updated.NextAction != "draft outline" || !updated.Priority {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestGoals(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()

	goal, err := svc.SetGoal(ctx, "run a marathon")
	if err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if goal.TargetDate == nil || !goal.TargetDate.Equal(today.AddDays(DefaultGoalTargetDays)) {
		t.Fatalf("target = %v", goal.TargetDate)
	}

	renamed, err := svc.SetGoal(ctx, "run a half marathon")
	if err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if renamed.ID != goal.ID || renamed.Description != "run a half marathon" {
		t.Fatalf("renamed = %+v", renamed)
	}

	done, err := svc.CompleteGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("CompleteGoal: %v", err)
	}
	if !done.Completed || !done.CompletionDate.Equal(today) {
		t.Fatalf("done = %+v", done)
	}
	if _, err := svc.CurrentGoal(ctx); !errors.Is(err, models.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}

	if _, err := svc.SetGoal(ctx, ""); !errors.Is(err, models.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestNotes(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()

	note, err := svc.AddNote(ctx, "idea", "build a shed", "")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if note.Type != models.DefaultNoteType || !note.CreatedDate.Equal(today) {
		t.Fatalf("note = %+v", note)
	}

	if _, err := svc.AddNote(ctx, "title only", "", "journal"); !errors.Is(err, models.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}

	updated, err := svc.UpdateNote(ctx, note.ID, "idea", "build a bigger shed", "project")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Body != "build a bigger shed" || updated.Type != "project" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := svc.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.Note(ctx, note.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateHabitTasks(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()

	start := dates.New(2024, time.March, 1)
	habit, err := svc.AddHabit(ctx, "stretch", "FREQ=WEEKLY;BYDAY=MO", &start)
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	created, err := svc.CreateHabitTasks(ctx)
	if err != nil {
		t.Fatalf("CreateHabitTasks: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(created))
	}
	task := created[0]
	if task.HabitID == nil || *task.HabitID != habit.ID || task.Description != "stretch" {
		t.Fatalf("task = %+v", task)
	}
	if want := dates.New(2024, time.March, 11); !task.DueDate.Equal(want) {
		t.Fatalf("due = %v, want %v", task.DueDate, want)
	}

	again, err := svc.CreateHabitTasks(ctx)
	if err != nil {
		t.Fatalf("CreateHabitTasks: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("habit with open task got another: %+v", again)
	}

	if _, err := svc.ToggleTask(ctx, task.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	next, err := svc.CreateHabitTasks(ctx)
	if err != nil {
		t.Fatalf("CreateHabitTasks: %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("completed habit task not replaced")
	}
}

func TestAddHabit_InvalidRule(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})

	if _, err := svc.AddHabit(context.Background(), "x", "BYDAY=MO", nil); !errors.Is(err, models.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestActivity(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	task := mustAddTask(t, svc, "x", nil)

	if _, err := svc.AddAction(ctx, task.ID, "did something", 0); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if _, err := svc.AddNote(ctx, "n", "b", ""); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if _, err := svc.ToggleTask(ctx, task.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	days, err := svc.Activity(ctx, 0)
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(days) != 21 {
		t.Fatalf("got %d days, want 21", len(days))
	}
	last := days[len(days)-1]
	if !last.IsToday || last.Actions != 2 || last.Completions != 1 {
		t.Fatalf("today = %+v", last)
	}
}

func TestOverdueTasks(t *testing.T) {
	_, svc := newTestService(t, duedate.Policy{})
	ctx := context.Background()
	late := mustAddTask(t, svc, "late", datePtr(today.AddDays(-1)))
	mustAddTask(t, svc, "due today", datePtr(today))

	tasks, err := svc.OverdueTasks(ctx)
	if err != nil {
		t.Fatalf("OverdueTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != late.ID {
		t.Fatalf("overdue = %+v", tasks)
	}
}
