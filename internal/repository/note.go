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

type NoteRepository struct {
	q querier
}

func NewNoteRepository(q querier) *NoteRepository {
	return &NoteRepository{q: q}
}

func (r *NoteRepository) CreateNote(ctx context.Context, note *models.Note) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO notes (title, note, type, created_date) VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		note.Title, note.Body, note.Type, note.CreatedDate.String(),
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	note, err := scanNote(r.q.QueryRow(ctx,
		`SELECT id, title, note, type, created_date FROM notes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) ListNotes(ctx context.Context) ([]*models.Note, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, title, note, type, created_date FROM notes ORDER BY created_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) UpdateNote(ctx context.Context, note *models.Note) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE notes SET title = $1, note = $2, type = $3 WHERE id = $4`,
		note.Title, note.Body, note.Type, note.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) DeleteNote(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

func scanNote(row scanner) (*models.Note, error) {
	note := &models.Note{}
	var created time.Time
	if err := row.Scan(&note.ID, &note.Title, &note.Body, &note.Type, &created); err != nil {
		return nil, err
	}
	note.CreatedDate = dates.FromTime(created)
	return note, nil
}
