package handler

import (
	"testing"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndOfDay(t *testing.T) {
	day, _ := service.ParseDate("x", "2026-03-04")
	end := endOfDay("2026-03-04", day)
	assert.Equal(t, time.Date(2026, 3, 4, 23, 59, 59, 999999999, time.UTC), *end)

	exact, _ := service.ParseDate("x", "2026-03-04T10:00:00Z")
	assert.Equal(t, exact, endOfDay("2026-03-04T10:00:00Z", exact))
	assert.Nil(t, endOfDay("", nil))
}

func TestParseID(t *testing.T) {
	id, err := parseID("id", "42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := parseID("id", raw)
		assert.ErrorIs(t, err, apperrors.ErrValidation, raw)
	}
}
