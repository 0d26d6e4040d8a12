package repository

import (
	"context"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a message for an existing request. The existence check and the insert run
// in one transaction.
func (r *MessageRepository) Create(ctx context.Context, requestID, senderID uint, text string) (*models.Message, error) {
	m := &models.Message{RequestID: requestID, SenderID: senderID, Text: text}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Request{}).Where("id = ?", requestID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("Request not found")
		}
		return tx.Omit(clause.Associations).Create(m).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Request not found")
	}
	return m, nil
}

const messageViewColumns = "m.id, m.request_id, m.sender_id, u.name AS sender_name, m.text, m.created_at"

// ListByRequest returns the conversation oldest first; equal timestamps fall back to id order.
func (r *MessageRepository) ListByRequest(ctx context.Context, requestID uint) ([]models.MessageView, error) {
	list := []models.MessageView{}
	err := r.db.WithContext(ctx).Table("messages m").
		Select(messageViewColumns).
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("m.request_id = ?", requestID).
		Order("m.created_at ASC").Order("m.id ASC").
		Scan(&list).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

func (r *MessageRepository) GetView(ctx context.Context, id uint) (*models.MessageView, error) {
	var views []models.MessageView
	err := r.db.WithContext(ctx).Table("messages m").
		Select(messageViewColumns).
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("m.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(views) == 0 {
		return nil, apperrors.NotFound("Message not found")
	}
	return &views[0], nil
}
