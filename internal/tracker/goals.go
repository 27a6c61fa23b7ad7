package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/store"
)

// CurrentGoal returns the newest uncompleted goal or ErrGoalNotFound.
func (s *Service) CurrentGoal(ctx context.Context) (*models.Goal, error) {
	return s.store.CurrentGoal(ctx)
}

// SetGoal renames the current goal, or starts a new one due in
// goalTargetDays when no goal is open.
func (s *Service) SetGoal(ctx context.Context, description string) (*models.Goal, error) {
	description, ok := required(description)
	if !ok {
		return nil, fmt.Errorf("goal description is required: %w", models.ErrInvalidArgs)
	}

	var goal *models.Goal
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.CurrentGoal(ctx)
		switch {
		case err == nil:
			current.Description = description
			if err := tx.UpdateGoal(ctx, current); err != nil {
				return err
			}
			goal = current
			return nil
		case !errors.Is(err, models.ErrGoalNotFound):
			return err
		}

		today := s.Today()
		target := today.AddDays(s.goalTargetDays)
		goal = &models.Goal{Description: description, CreatedDate: today, TargetDate: &target}
		return tx.CreateGoal(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// CompleteGoal marks the goal completed today. Completing an already
// completed goal keeps its original completion date.
func (s *Service) CompleteGoal(ctx context.Context, id int64) (*models.Goal, error) {
	if id <= 0 {
		return nil, models.ErrInvalidArgs
	}

	var goal *models.Goal
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		g, err := tx.GetGoal(ctx, id)
		if err != nil {
			return err
		}
		goal = g
		if g.Completed {
			return nil
		}
		today := s.Today()
		g.Completed = true
		g.CompletionDate = &today
		return tx.UpdateGoal(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}
