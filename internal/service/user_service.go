package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/models"
	"shelterconnect/internal/repository"
)

const maxNameRunes = 255

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) UpdateName(ctx context.Context, userID uint, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return nil, apperrors.Validation("name", "name is too long")
	}
	return s.repo.UpdateName(ctx, userID, name)
}

// SetPushToken registers the device token used for mobile push. An empty token unregisters.
func (s *UserService) SetPushToken(ctx context.Context, userID uint, token string) error {
	return s.repo.UpdatePushToken(ctx, userID, strings.TrimSpace(token))
}
