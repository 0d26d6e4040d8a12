package repository

import (
	"context"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnreadRepository struct {
	db *gorm.DB
}

func NewUnreadRepository(db *gorm.DB) *UnreadRepository {
	return &UnreadRepository{db: db}
}

// Insert adds a ledger row unless (userID, messageID) already has one. It reports whether a
// row was written.
func (r *UnreadRepository) Insert(ctx context.Context, userID, messageID, requestID uint) (bool, error) {
	row := &models.UnreadMessage{UserID: userID, MessageID: messageID, RequestID: requestID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "message_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type unreadGroup struct {
	RequestID   uint
	UnreadCount int64
}

type lastMessage struct {
	MessageID  uint
	RequestID  uint
	Title      string
	SenderName string
	CreatedAt  time.Time
}

// ListGrouped returns one summary per request with unread rows for userID, ordered by the
// timestamp of the newest unread message (message id breaks ties).
func (r *UnreadRepository) ListGrouped(ctx context.Context, userID uint, limit, offset int) ([]models.UnreadSummary, error) {
	var groups []unreadGroup
	err := r.db.WithContext(ctx).Table("unread_messages um").
		Select("um.request_id, COUNT(*) AS unread_count").
		Joins("JOIN messages m ON m.id = um.message_id").
		Where("um.user_id = ?", userID).
		Group("um.request_id").
		Order("MAX(m.created_at) DESC, MAX(um.message_id) DESC").
		Limit(limit).Offset(offset).
		Scan(&groups).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := make([]models.UnreadSummary, 0, len(groups))
	if len(groups) == 0 {
		return out, nil
	}

	requestIDs := make([]uint, len(groups))
	for i, g := range groups {
		requestIDs[i] = g.RequestID
	}
	var unread []lastMessage
	err = r.db.WithContext(ctx).Table("unread_messages um").
		Select("m.id AS message_id, m.request_id, r.title, u.name AS sender_name, m.created_at").
		Joins("JOIN messages m ON m.id = um.message_id").
		Joins("JOIN requests r ON r.id = m.request_id").
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("um.user_id = ? AND um.request_id IN ?", userID, requestIDs).
		Order("m.created_at DESC, m.id DESC").
		Scan(&unread).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	latest := make(map[uint]lastMessage, len(groups))
	for _, l := range unread {
		if _, seen := latest[l.RequestID]; !seen {
			latest[l.RequestID] = l
		}
	}
	for _, g := range groups {
		l := latest[g.RequestID]
		out = append(out, models.UnreadSummary{
			RequestID:       g.RequestID,
			Title:           l.Title,
			LastMessageFrom: l.SenderName,
			LastMessageDate: l.CreatedAt,
			UnreadCount:     g.UnreadCount,
		})
	}
	return out, nil
}

// CountGroups is the number of requests with at least one unread row for userID.
func (r *UnreadRepository) CountGroups(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UnreadMessage{}).
		Where("user_id = ?", userID).
		Distinct("request_id").
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// DeleteForRequest removes every unread row of userID in requestID.
func (r *UnreadRepository) DeleteForRequest(ctx context.Context, userID, requestID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND request_id = ?", userID, requestID).
		Delete(&models.UnreadMessage{})
	if res.Error != nil {
		return 0, apperrors.Internal(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *UnreadRepository) Exists(ctx context.Context, userID uint) (bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.UnreadMessage{}).
		Where("user_id = ?", userID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return len(ids) > 0, nil
}
