package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/domain/repository"
)

// ProfileRepository stores profile sections as jsonb columns keyed by username.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, username string) (*entity.Profile, error) {
	p := &entity.Profile{}
	var general, goals, nutrition []byte

	row := r.pool.QueryRow(ctx, `
		SELECT username, general, goals, nutrition, created_at, updated_at
		FROM profiles
		WHERE username = $1
	`, username)

	if err := row.Scan(&p.Username, &general, &goals, &nutrition,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(general, &p.General); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(goals, &p.Goals); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(nutrition, &p.Nutrition); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *ProfileRepository) Insert(ctx context.Context, p *entity.Profile) error {
	general, err := json.Marshal(p.General)
	if err != nil {
		return err
	}
	goals, err := json.Marshal(p.Goals)
	if err != nil {
		return err
	}
	nutrition, err := json.Marshal(p.Nutrition)
	if err != nil {
		return err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (username, general, goals, nutrition)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, p.Username, general, goals, nutrition)

	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepository) UpdateGeneral(ctx context.Context, username string, g entity.General) (bool, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return false, err
	}
	return r.updateSection(ctx, username, "general", b)
}

func (r *ProfileRepository) UpdateGoals(ctx context.Context, username string, goals []string) (bool, error) {
	b, err := json.Marshal(goals)
	if err != nil {
		return false, err
	}
	return r.updateSection(ctx, username, "goals", b)
}

func (r *ProfileRepository) UpdateNutrition(ctx context.Context, username string, n entity.Nutrition) (bool, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return false, err
	}
	return r.updateSection(ctx, username, "nutrition", b)
}

func (r *ProfileRepository) updateSection(ctx context.Context, username, column string, value []byte) (bool, error) {
	// column is one of the fixed section names, never caller input
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET `+column+` = $1, updated_at = $2
		WHERE username = $3
	`, value, time.Now(), username)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
