package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendcli/internal/errors"
)

func TestSplitRoster(t *testing.T) {
	assert.Empty(t, splitRoster(""))
	assert.Equal(t, []string{"a@x.com"}, splitRoster("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitRoster("a@x.com,b@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitRoster("a@x.com, b@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitRoster("a@x.com b@x.com"))
}

func TestParseDateFlag(t *testing.T) {
	date, err := parseDateFlag("from", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), date)

	date, err = parseDateFlag("from", "")
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	_, err = parseDateFlag("to", "05/01/2024")
	require.Error(t, err)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, exitConfig, exitCodeFor(apperrors.NewValidationError("bad input")))
	assert.Equal(t, exitConfig, exitCodeFor(apperrors.NewConfigError("bad config", nil)))
	assert.Equal(t, exitExtraction, exitCodeFor(apperrors.NewExtractionError("bad zip", nil)))
	assert.Equal(t, exitRegistry, exitCodeFor(apperrors.NewRegistryError("bad registry", nil)))
	assert.Equal(t, exitWrite, exitCodeFor(apperrors.NewWriteError("bad output", nil)))
	assert.Equal(t, exitFailure, exitCodeFor(apperrors.NewParsingError("bad report", nil)))
}
