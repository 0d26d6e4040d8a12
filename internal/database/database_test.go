package database

import (
	"testing"

	"shelterconnect/config"
	"shelterconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBSqliteAndMigrate(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:dbtest?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []any{&models.User{}, &models.Request{}, &models.Message{}, &models.UnreadMessage{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&models.UnreadMessage{}, "idx_unread_user_message"))
}

func TestNewDBUnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSeed(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:seedtest?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	users, err := Seed(db)
	require.NoError(t, err)
	require.Len(t, users, 4)

	var reqs []models.Request
	require.NoError(t, db.Find(&reqs).Error)
	assert.Len(t, reqs, 20)
	for _, r := range reqs {
		assert.Equal(t, r.Status.HasAssignee(), r.AssignedToID != nil, r.Title)
	}

	_, err = Seed(db)
	assert.Error(t, err)
}
