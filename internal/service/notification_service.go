package service

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"shelterconnect/internal/logger"
	"shelterconnect/internal/models"
)

const (
	NotificationNewMessage = "NEW_MESSAGE"

	pushTimeout     = 10 * time.Second
	pushPreviewRune = 120
)

type participantSource interface {
	Participants(ctx context.Context, requestID uint) (models.Participants, error)
	GetByID(ctx context.Context, id uint) (*models.Request, error)
}

type unreadWriter interface {
	Insert(ctx context.Context, userID, messageID, requestID uint) (bool, error)
}

type tokenSource interface {
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}

// NotificationService records unread markers for everyone in a conversation except the
// sender, and pushes a mobile notification when push is enabled.
type NotificationService struct {
	requests participantSource
	unread   unreadWriter
	users    tokenSource
	push     Pusher
}

// NewNotificationService wires the fan-out. push may be nil.
func NewNotificationService(requests participantSource, unread unreadWriter, users tokenSource, push Pusher) *NotificationService {
	return &NotificationService{requests: requests, unread: unread, users: users, push: push}
}

// Recipients is {creator, assignee} without the sender and without an empty assignee.
func Recipients(p models.Participants, senderID uint) []uint {
	var out []uint
	if p.CreatorID != 0 && p.CreatorID != senderID {
		out = append(out, p.CreatorID)
	}
	if p.AssignedToID != nil && *p.AssignedToID != senderID && *p.AssignedToID != p.CreatorID {
		out = append(out, *p.AssignedToID)
	}
	return out
}

// FanOut writes one ledger row per recipient of msg. Failures are logged and returned as
// warnings; the message itself is never affected.
func (s *NotificationService) FanOut(ctx context.Context, msg *models.Message, senderName string) []string {
	log := logger.FromContext(ctx).With("message_id", msg.ID, "request_id", msg.RequestID)

	p, err := s.requests.Participants(ctx, msg.RequestID)
	if err != nil {
		log.Warn("fan-out: participants lookup failed", "error", err)
		return []string{"unread markers not recorded"}
	}

	var failed, delivered []uint
	for _, userID := range Recipients(p, msg.SenderID) {
		if _, err := s.unread.Insert(ctx, userID, msg.ID, msg.RequestID); err != nil {
			log.Warn("fan-out: unread insert failed", "recipient_id", userID, "error", err)
			failed = append(failed, userID)
			continue
		}
		delivered = append(delivered, userID)
	}

	if s.push != nil && len(delivered) > 0 {
		go s.pushNewMessage(context.WithoutCancel(ctx), msg, senderName, delivered)
	}

	out := make([]string, 0, len(failed))
	for _, id := range failed {
		out = append(out, fmt.Sprintf("unread marker not recorded for user %d", id))
	}
	return out
}

func (s *NotificationService) pushNewMessage(ctx context.Context, msg *models.Message, senderName string, userIDs []uint) {
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	log := logger.FromContext(ctx).With("message_id", msg.ID)

	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		log.Warn("push: load recipients failed", "error", err)
		return
	}
	title := "New message"
	if req, err := s.requests.GetByID(ctx, msg.RequestID); err == nil {
		title = req.Title
	}
	body := senderName + ": " + preview(msg.Text)
	data := map[string]string{
		"type":       NotificationNewMessage,
		"request_id": strconv.FormatUint(uint64(msg.RequestID), 10),
		"message_id": strconv.FormatUint(uint64(msg.ID), 10),
	}
	for _, u := range users {
		if u.PushToken == "" {
			continue
		}
		if err := s.push.Push(ctx, u.PushToken, title, body, data); err != nil {
			log.Warn("push: send failed", "recipient_id", u.ID, "error", err)
		}
	}
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= pushPreviewRune {
		return text
	}
	r := []rune(text)
	return string(r[:pushPreviewRune]) + "…"
}
