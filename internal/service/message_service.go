package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/logger"
	"shelterconnect/internal/models"
	"shelterconnect/internal/repository"
	"shelterconnect/internal/ws"
)

type MessageService struct {
	messages    *repository.MessageRepository
	notifier    *NotificationService
	broadcaster ws.Broadcaster
}

func NewMessageService(messages *repository.MessageRepository, notifier *NotificationService, broadcaster ws.Broadcaster) *MessageService {
	return &MessageService{messages: messages, notifier: notifier, broadcaster: broadcaster}
}

// SendResult is the stored message plus any non-fatal problems met after it was persisted.
type SendResult struct {
	Message  *models.MessageView
	Warnings []string
}

// Send persists a message, records unread markers for the other participants and pushes a
// receive_message event to the request's room, in that order. Only a failure to persist is
// an error.
func (s *MessageService) Send(ctx context.Context, senderID, requestID uint, text string) (*SendResult, error) {
	if requestID == 0 {
		return nil, apperrors.Validation("request_id", "request_id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("text", "text is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxMessageRunes {
		return nil, apperrors.Validation("text", "text is too long")
	}

	msg, err := s.messages.Create(ctx, requestID, senderID, text)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With("message_id", msg.ID, "request_id", requestID)

	view, err := s.messages.GetView(ctx, msg.ID)
	if err != nil {
		log.Warn("load sender name failed", "error", err)
		view = &models.MessageView{
			ID: msg.ID, RequestID: msg.RequestID, SenderID: msg.SenderID,
			Text: msg.Text, CreatedAt: msg.CreatedAt,
		}
	}

	res := &SendResult{Message: view}
	if s.notifier != nil {
		res.Warnings = append(res.Warnings, s.notifier.FanOut(ctx, msg, view.SenderName)...)
	}
	if s.broadcaster != nil {
		ev := ws.Event{Event: ws.EventReceiveMessage, Data: view}
		if err := s.broadcaster.BroadcastToRoom(ctx, requestID, ev); err != nil {
			log.Warn("broadcast failed", "error", err)
			res.Warnings = append(res.Warnings, "realtime delivery failed")
		}
	}
	return res, nil
}

// List returns a request's conversation oldest first.
func (s *MessageService) List(ctx context.Context, requestID uint) ([]models.MessageView, error) {
	if requestID == 0 {
		return nil, apperrors.Validation("requestId", "requestId is required")
	}
	return s.messages.ListByRequest(ctx, requestID)
}
