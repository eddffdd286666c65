package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRecord is one persisted display preference.
type PreferenceRecord struct {
	Profile   string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// PreferenceRepository persists display preferences per profile.
type PreferenceRepository interface {
	Get(ctx context.Context, profile, key string) (*PreferenceRecord, error)
	Upsert(ctx context.Context, record *PreferenceRecord) error
	ListByProfile(ctx context.Context, profile string) ([]PreferenceRecord, error)
}

type preferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository returns a Postgres-backed implementation.
func NewPreferenceRepository(pool *pgxpool.Pool) PreferenceRepository {
	return &preferenceRepository{pool: pool}
}

// Get returns pgx.ErrNoRows when the key was never written.
func (r *preferenceRepository) Get(ctx context.Context, profile, key string) (*PreferenceRecord, error) {
	if r.pool == nil {
		return nil, errors.New("postgres pool not configured")
	}
	const query = `
        SELECT profile, key, value, updated_at
        FROM board_preferences WHERE profile=$1 AND key=$2`

	var record PreferenceRecord
	if err := r.pool.QueryRow(ctx, query, profile, key).Scan(
		&record.Profile,
		&record.Key,
		&record.Value,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, record *PreferenceRecord) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	const query = `
        INSERT INTO board_preferences (profile, key, value)
        VALUES ($1,$2,$3)
        ON CONFLICT (profile, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		record.Profile,
		record.Key,
		record.Value,
	).Scan(&record.UpdatedAt)
}

func (r *preferenceRepository) ListByProfile(ctx context.Context, profile string) ([]PreferenceRecord, error) {
	if r.pool == nil {
		return nil, errors.New("postgres pool not configured")
	}
	const query = `
        SELECT profile, key, value, updated_at
        FROM board_preferences WHERE profile=$1 ORDER BY key`

	rows, err := r.pool.Query(ctx, query, profile)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PreferenceRecord, error) {
		var record PreferenceRecord
		err := row.Scan(&record.Profile, &record.Key, &record.Value, &record.UpdatedAt)
		return record, err
	})
}
