package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

// stubClassifier answers health probes with a fixed status.
type stubClassifier struct {
	status service.HealthStatus
}

func (s *stubClassifier) Health(_ context.Context) service.HealthStatus {
	return s.status
}

func (s *stubClassifier) Analyze(_ context.Context, _, _, _ string) (model.ClassificationResult, error) {
	return model.ClassificationResult{}, errors.New("not under test")
}

func TestRequireHealthy(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, requireHealthy(ctx, &stubClassifier{status: service.StatusHealthy}))

	err := requireHealthy(ctx, &stubClassifier{status: service.StatusUnreachable})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnreachable))

	err = requireHealthy(ctx, &stubClassifier{status: service.StatusUnhealthy})
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrUnreachable))
	assert.Contains(t, err.Error(), "unhealthy")
}

func TestLoadCorpus_RejectsUnknownCategory(t *testing.T) {
	_, err := loadCorpus(&config.Config{}, "mystery_category")
	require.Error(t, err)

	// The error names the valid categories so the flag is discoverable.
	assert.Contains(t, err.Error(), "valid categories")
	assert.Contains(t, err.Error(), "definite_high")
	assert.Contains(t, err.Error(), "definite_none")
}

func TestLoadCorpus_FiltersToCategory(t *testing.T) {
	phrases, err := loadCorpus(&config.Config{}, "definite_high")
	require.NoError(t, err)
	require.NotEmpty(t, phrases)
	for _, p := range phrases {
		assert.Equal(t, "definite_high", p.Category)
	}
}

func TestLoadConfig_SurfacesUserError(t *testing.T) {
	// The bare global viper carries no defaults, so validation fails on the
	// missing classifier URL and the failure is wrapped for display.
	_, err := loadConfig()
	require.Error(t, err)

	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "invalid configuration", userErr.UserMessage)
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
}
