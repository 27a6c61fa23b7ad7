package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

const taskColumns = `id, description, due_date, completed, completion_date, COALESCE(next_action, ''),
	priority, goal_id, habit_id, last_notification`

type TaskRepository struct {
	q querier
}

func NewTaskRepository(q querier) *TaskRepository {
	return &TaskRepository{q: q}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO tasks (description, due_date, completed, completion_date, next_action, priority, goal_id, habit_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		 RETURNING id`,
		task.Description, dateArg(task.DueDate), task.Completed, dateArg(task.CompletionDate),
		task.NextAction, task.Priority, task.GoalID, task.HabitID,
	).Scan(&task.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create task: %w", models.ErrInvalidArgs)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("create task: completion date must match completed flag: %w", models.ErrInvalidArgs)
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) ListTasks(ctx context.Context, includeCompleted bool) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeCompleted {
		query += ` WHERE completed = FALSE`
	}
	query += ` ORDER BY completed ASC, due_date ASC NULLS LAST, id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE tasks SET description = $1, due_date = $2, completed = $3, completion_date = $4,
		 next_action = NULLIF($5, ''), priority = $6, goal_id = $7, habit_id = $8, last_notification = $9
		 WHERE id = $10`,
		task.Description, dateArg(task.DueDate), task.Completed, dateArg(task.CompletionDate),
		task.NextAction, task.Priority, task.GoalID, task.HabitID, dateArg(task.LastNotification), task.ID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update task: completion date must match completed flag: %w", models.ErrInvalidArgs)
		}
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) SetCompletion(ctx context.Context, id int64, completed bool, on *dates.Date) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE tasks SET completed = $1, completion_date = $2 WHERE id = $3`,
		completed, dateArg(on), id,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("set completion: %w", models.ErrInvalidArgs)
		}
		return fmt.Errorf("set completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) OverdueTasks(ctx context.Context, today dates.Date) ([]*models.Task, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE completed = FALSE AND due_date IS NOT NULL AND due_date < $1
		 ORDER BY due_date ASC, id ASC`,
		today.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("overdue tasks: %w", err)
	}
	return collectTasks(rows)
}

func (r *TaskRepository) PriorityTask(ctx context.Context) (*models.Task, error) {
	task, err := scanTask(r.q.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE completed = FALSE AND priority = TRUE
		 ORDER BY due_date ASC NULLS LAST, id ASC
		 LIMIT 1`,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("priority task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) SetLastNotification(ctx context.Context, id int64, on dates.Date) error {
	tag, err := r.q.Exec(ctx, `UPDATE tasks SET last_notification = $1 WHERE id = $2`, on.String(), id)
	if err != nil {
		return fmt.Errorf("set last notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var due, completedOn, notified *time.Time
	if err := row.Scan(&task.ID, &task.Description, &due, &task.Completed, &completedOn,
		&task.NextAction, &task.Priority, &task.GoalID, &task.HabitID, &notified); err != nil {
		return nil, err
	}
	task.DueDate = toDate(due)
	task.CompletionDate = toDate(completedOn)
	task.LastNotification = toDate(notified)
	return task, nil
}

func collectTasks(rows pgx.Rows) ([]*models.Task, error) {
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
