// Package repository implements store.Store on PostgreSQL through pgx.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hray3182/melgar/internal/database"
	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/store"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type Store struct {
	*TaskRepository
	*ActionRepository
	*GoalRepository
	*NoteRepository
	*HabitRepository
	*EventRepository
	*ActivityRepository

	db   *database.DB
	inTx bool
}

var _ store.Store = (*Store)(nil)

func NewStore(db *database.DB) *Store {
	return newStore(db, db.Pool, false)
}

func newStore(db *database.DB, q querier, inTx bool) *Store {
	return &Store{
		TaskRepository:     NewTaskRepository(q),
		ActionRepository:   NewActionRepository(q),
		GoalRepository:     NewGoalRepository(q),
		NoteRepository:     NewNoteRepository(q),
		HabitRepository:    NewHabitRepository(q),
		EventRepository:    NewEventRepository(q),
		ActivityRepository: NewActivityRepository(q),
		db:                 db,
		inTx:               inTx,
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(newStore(s.db, tx, true)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if !s.inTx {
		s.db.Close()
	}
	return nil
}

// dateArg passes dates as ISO text so the server parses them into DATE columns.
func dateArg(d *dates.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func toDate(t *time.Time) *dates.Date {
	if t == nil {
		return nil
	}
	d := dates.FromTime(*t)
	return &d
}

func collectCounts(rows pgx.Rows) ([]models.DateCount, error) {
	defer rows.Close()

	var counts []models.DateCount
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts = append(counts, models.DateCount{Date: dates.FromTime(day), Count: n})
	}
	return counts, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
