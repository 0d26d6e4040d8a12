package service

import (
	"context"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/logger"
	"shelterconnect/internal/models"
	"shelterconnect/internal/repository"
)

type UnreadService struct {
	repo *repository.UnreadRepository
}

func NewUnreadService(repo *repository.UnreadRepository) *UnreadService {
	return &UnreadService{repo: repo}
}

type UnreadPagination struct {
	CurrentPage int   `json:"current_page"`
	Limit       int   `json:"limit"`
	TotalUnread int64 `json:"total_unread"`
	TotalPages  int64 `json:"total_pages"`
}

type UnreadPage struct {
	UnreadRequests []models.UnreadSummary `json:"unread_requests"`
	Pagination     UnreadPagination       `json:"pagination"`
}

// ListUnread groups the user's unread markers by request, most recent message first.
func (s *UnreadService) ListUnread(ctx context.Context, userID uint, page, limit int) (*UnreadPage, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}
	total, err := s.repo.CountGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.ListGrouped(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UnreadPage{
		UnreadRequests: groups,
		Pagination: UnreadPagination{
			CurrentPage: page,
			Limit:       limit,
			TotalUnread: total,
			TotalPages:  totalPages(total, limit),
		},
	}, nil
}

// MarkRead clears every unread marker the user has in requestID. Clearing an already read
// conversation succeeds.
func (s *UnreadService) MarkRead(ctx context.Context, userID, requestID uint) error {
	if requestID == 0 {
		return apperrors.Validation("request_id", "request_id is required")
	}
	n, err := s.repo.DeleteForRequest(ctx, userID, requestID)
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "messages marked read", "request_id", requestID, "cleared", n)
	return nil
}

func (s *UnreadService) HasUnread(ctx context.Context, userID uint) (bool, error) {
	return s.repo.Exists(ctx, userID)
}
