package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/domain/repository"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) ListByUsername(ctx context.Context, username string) ([]entity.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, text, created_at
		FROM notes
		WHERE username = $1
		ORDER BY created_at
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]entity.Note, 0)
	for rows.Next() {
		var n entity.Note
		if err := rows.Scan(&n.ID, &n.Username, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (r *NoteRepository) Insert(ctx context.Context, n *entity.Note) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (id, username, text)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, n.ID, n.Username, n.Text)

	return row.Scan(&n.CreatedAt)
}

func (r *NoteRepository) Delete(ctx context.Context, username, id string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM notes
		WHERE id = $1 AND username = $2
	`, id, username)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
