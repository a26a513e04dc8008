package repository

import (
	"context"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

// ProfileRepository defines the interface for profile document operations.
type ProfileRepository interface {
	// Get returns the profile, or (nil, nil) when none exists yet.
	Get(ctx context.Context, username string) (*entity.Profile, error)

	// Insert stores a new profile document.
	Insert(ctx context.Context, p *entity.Profile) error

	// UpdateGeneral, UpdateGoals and UpdateNutrition replace one section of
	// the profile. Each returns true iff a matching record was modified.
	UpdateGeneral(ctx context.Context, username string, g entity.General) (bool, error)
	UpdateGoals(ctx context.Context, username string, goals []string) (bool, error)
	UpdateNutrition(ctx context.Context, username string, n entity.Nutrition) (bool, error)
}

// NoteRepository defines the interface for note operations.
type NoteRepository interface {
	ListByUsername(ctx context.Context, username string) ([]entity.Note, error)
	Insert(ctx context.Context, n *entity.Note) error

	// Delete removes the note iff it belongs to the given user.
	// Returns true iff a row was deleted.
	Delete(ctx context.Context, username, id string) (bool, error)
}
