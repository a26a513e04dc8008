package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT username, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)

	if err := row.Scan(&u.Username, &u.Email, &u.Name, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

// InsertIfAbsent relies on the primary key on username; ON CONFLICT makes
// the check-and-insert a single atomic statement, so concurrent signups
// with the same username cannot both succeed.
func (r *UserRepository) InsertIfAbsent(ctx context.Context, u *entity.User) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
	`, u.Username, u.Email, u.Name, u.PasswordHash)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, username, email string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, updated_at = $2
		WHERE username = $3
	`, email, time.Now(), username)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = $2
		WHERE username = $3
	`, passwordHash, time.Now(), username)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
