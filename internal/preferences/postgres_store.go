package preferences

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-board/internal/repository"
)

// PostgresStore persists preferences through the preference repository.
type PostgresStore struct {
	repo    repository.PreferenceRepository
	profile string
}

// NewPostgresStore scopes the repository to one profile.
func NewPostgresStore(repo repository.PreferenceRepository, profile string) *PostgresStore {
	return &PostgresStore{repo: repo, profile: profile}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	record, err := s.repo.Get(ctx, s.profile, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.Value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Upsert(ctx, &repository.PreferenceRecord{Profile: s.profile, Key: key, Value: value})
}

// All loads every key of the profile with a single query.
func (s *PostgresStore) All(ctx context.Context) (map[string]string, error) {
	records, err := s.repo.ListByProfile(ctx, s.profile)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record.Key] = record.Value
	}
	return values, nil
}
