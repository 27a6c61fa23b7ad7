package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/store"
)

func noteType(t string) string {
	if t = strings.TrimSpace(t); t == "" {
		return models.DefaultNoteType
	}
	return t
}

func (s *Service) AddNote(ctx context.Context, title, body, typ string) (*models.Note, error) {
	title, okTitle := required(title)
	body, okBody := required(body)
	if !okTitle || !okBody {
		return nil, fmt.Errorf("title and note content are required: %w", models.ErrInvalidArgs)
	}

	note := &models.Note{Title: title, Body: body, Type: noteType(typ), CreatedDate: s.Today()}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Note(ctx context.Context, id int64) (*models.Note, error) {
	if id <= 0 {
		return nil, models.ErrInvalidArgs
	}
	return s.store.GetNote(ctx, id)
}

// Notes lists every note, newest first.
func (s *Service) Notes(ctx context.Context) ([]*models.Note, error) {
	return s.store.ListNotes(ctx)
}

// UpdateNote rewrites a note's title, body and type. The creation date is kept.
func (s *Service) UpdateNote(ctx context.Context, id int64, title, body, typ string) (*models.Note, error) {
	title, okTitle := required(title)
	body, okBody := required(body)
	if !okTitle || !okBody {
		return nil, fmt.Errorf("title and note content are required: %w", models.ErrInvalidArgs)
	}

	var note *models.Note
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		n, err := tx.GetNote(ctx, id)
		if err != nil {
			return err
		}
		n.Title = title
		n.Body = body
		n.Type = noteType(typ)
		note = n
		return tx.UpdateNote(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	if id <= 0 {
		return models.ErrInvalidArgs
	}
	return s.store.DeleteNote(ctx, id)
}
