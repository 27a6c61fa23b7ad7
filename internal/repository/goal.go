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

const goalColumns = `id, description, created_date, target_date, completed, completion_date`

type GoalRepository struct {
	q querier
}

func NewGoalRepository(q querier) *GoalRepository {
	return &GoalRepository{q: q}
}

func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO goals (description, created_date, target_date, completed, completion_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		goal.Description, goal.CreatedDate.String(), dateArg(goal.TargetDate), goal.Completed, dateArg(goal.CompletionDate),
	).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	goal, err := scanGoal(r.q.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

func (r *GoalRepository) CurrentGoal(ctx context.Context) (*models.Goal, error) {
	goal, err := scanGoal(r.q.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE completed = FALSE ORDER BY id DESC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGoalNotFound
		}
		return nil, fmt.Errorf("current goal: %w", err)
	}
	return goal, nil
}

func (r *GoalRepository) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE goals SET description = $1, target_date = $2, completed = $3, completion_date = $4
		 WHERE id = $5`,
		goal.Description, dateArg(goal.TargetDate), goal.Completed, dateArg(goal.CompletionDate), goal.ID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update goal: %w", models.ErrInvalidArgs)
		}
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row scanner) (*models.Goal, error) {
	goal := &models.Goal{}
	var created time.Time
	var target, completedOn *time.Time
	if err := row.Scan(&goal.ID, &goal.Description, &created, &target, &goal.Completed, &completedOn); err != nil {
		return nil, err
	}
	goal.CreatedDate = dates.FromTime(created)
	goal.TargetDate = toDate(target)
	goal.CompletionDate = toDate(completedOn)
	return goal, nil
}
