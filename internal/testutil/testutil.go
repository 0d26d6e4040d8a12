// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shelterconnect/config"
	"shelterconnect/internal/database"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role domain.Role) *models.User {
	t.Helper()
	u := &models.User{
		Email: fmt.Sprintf("%s-%s@example.org", name, uuid.NewString()[:8]),
		Name:  name,
		Role:  role,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// RequestOption adjusts a fixture request before it is inserted.
type RequestOption func(*models.Request)

func WithStatus(s domain.RequestStatus, assignee *models.User) RequestOption {
	return func(r *models.Request) {
		r.Status = s
		if assignee != nil {
			r.AssignedToID = &assignee.ID
		}
	}
}

func WithLocation(loc string) RequestOption {
	return func(r *models.Request) { r.Location = loc }
}

func WithTitle(title string) RequestOption {
	return func(r *models.Request) { r.Title = title }
}

func WithType(rt domain.RequestType) RequestOption {
	return func(r *models.Request) { r.Type = rt }
}

func WithCreatedAt(at time.Time) RequestOption {
	return func(r *models.Request) { r.CreatedAt = at }
}

func CreateRequest(t *testing.T, db *gorm.DB, creator *models.User, opts ...RequestOption) *models.Request {
	t.Helper()
	r := &models.Request{
		Title:     "Blankets",
		Type:      domain.RequestTypeSupplies,
		Urgency:   domain.UrgencyHigh,
		Status:    domain.StatusPending,
		Details:   "Winter blankets for the east wing",
		Location:  "Vancouver",
		CreatorID: creator.ID,
	}
	for _, opt := range opts {
		opt(r)
	}
	require.NoError(t, db.Omit("Creator", "AssignedTo").Create(r).Error)
	return r
}

func CreateMessage(t *testing.T, db *gorm.DB, req *models.Request, sender *models.User, text string) *models.Message {
	t.Helper()
	m := &models.Message{RequestID: req.ID, SenderID: sender.ID, Text: text}
	require.NoError(t, db.Omit("Request", "Sender").Create(m).Error)
	return m
}
