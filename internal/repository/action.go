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

type ActionRepository struct {
	q querier
}

func NewActionRepository(q querier) *ActionRepository {
	return &ActionRepository{q: q}
}

func (r *ActionRepository) CreateAction(ctx context.Context, action *models.Action) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO task_actions (task_id, action_description, action_date)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		action.TaskID, action.Description, action.Date.String(),
	).Scan(&action.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ErrTaskNotFound
		}
		return fmt.Errorf("create action: %w", err)
	}
	return nil
}

func (r *ActionRepository) GetAction(ctx context.Context, id int64) (*models.Action, error) {
	action, err := scanAction(r.q.QueryRow(ctx,
		`SELECT id, task_id, action_description, action_date FROM task_actions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrActionNotFound
		}
		return nil, fmt.Errorf("get action: %w", err)
	}
	return action, nil
}

func (r *ActionRepository) ListActions(ctx context.Context, taskID int64) ([]*models.Action, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, task_id, action_description, action_date FROM task_actions
		 WHERE task_id = $1
		 ORDER BY action_date DESC, id DESC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.Action
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func (r *ActionRepository) DeleteAction(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM task_actions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrActionNotFound
	}
	return nil
}

func scanAction(row scanner) (*models.Action, error) {
	action := &models.Action{}
	var on time.Time
	if err := row.Scan(&action.ID, &action.TaskID, &action.Description, &on); err != nil {
		return nil, err
	}
	action.Date = dates.FromTime(on)
	return action, nil
}
