package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceRepository_WithoutPool(t *testing.T) {
	t.Parallel()

	repo := NewPreferenceRepository(nil)
	ctx := context.Background()

	_, err := repo.Get(ctx, "default", "isDarkMode")
	assert.ErrorContains(t, err, "not configured")

	err = repo.Upsert(ctx, &PreferenceRecord{Profile: "default", Key: "isDarkMode", Value: "true"})
	assert.ErrorContains(t, err, "not configured")

	_, err = repo.ListByProfile(ctx, "default")
	assert.ErrorContains(t, err, "not configured")
}
