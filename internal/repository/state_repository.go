package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStateNotFound is returned when a user has no stored document yet.
var ErrStateNotFound = errors.New("state document not found")

// StateRepository persists one JSON document per user in the registos
// table. The store is get/put only: no partial updates, no transactions,
// last write wins.
type StateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository creates a new StateRepository.
func NewStateRepository(pool *pgxpool.Pool) *StateRepository {
	return &StateRepository{pool: pool}
}

// Get retrieves the raw document for a user.
func (r *StateRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM registos WHERE id = $1`, userID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put upserts the user's document wholesale.
func (r *StateRepository) Put(ctx context.Context, userID string, data []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO registos (id, data, updated_at)
		 VALUES ($1, $2, CURRENT_TIMESTAMP)
		 ON CONFLICT (id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`,
		userID, data,
	)
	return err
}

// UpdatedAt returns the last persistence timestamp for a user's document.
func (r *StateRepository) UpdatedAt(ctx context.Context, userID string) (time.Time, error) {
	var t time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT updated_at FROM registos WHERE id = $1`, userID,
	).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrStateNotFound
	}
	return t, err
}
