package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidArgs = errors.New("invalid arguments")
)

var (
	ErrTaskNotFound   = fmt.Errorf("task %w", ErrNotFound)
	ErrActionNotFound = fmt.Errorf("action %w", ErrNotFound)
	ErrGoalNotFound   = fmt.Errorf("goal %w", ErrNotFound)
	ErrNoteNotFound   = fmt.Errorf("note %w", ErrNotFound)
	ErrHabitNotFound  = fmt.Errorf("habit %w", ErrNotFound)
)
