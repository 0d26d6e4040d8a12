package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/models"
	"shelterconnect/internal/repository"
	"shelterconnect/internal/testutil"
	"shelterconnect/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	*requestFixture
	messages *MessageService
	unread   *UnreadService
	unreadDB *repository.UnreadRepository
	bc       *recordingBroadcaster
}

func newChatFixture(t *testing.T) *chatFixture {
	f := newRequestFixture(t)
	unreadRepo := repository.NewUnreadRepository(f.db)
	notifier := NewNotificationService(repository.NewRequestRepository(f.db), unreadRepo, repository.NewUserRepository(f.db), nil)
	bc := &recordingBroadcaster{}
	return &chatFixture{
		requestFixture: f,
		messages:       NewMessageService(repository.NewMessageRepository(f.db), notifier, bc),
		unread:         NewUnreadService(unreadRepo),
		unreadDB:       unreadRepo,
		bc:             bc,
	}
}

func (f *chatFixture) unreadCount(t *testing.T, userID, requestID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.UnreadMessage{}).
		Where("user_id = ? AND request_id = ?", userID, requestID).
		Count(&n).Error)
	return n
}

func TestShelterSupporterConversation(t *testing.T) {
	f := newChatFixture(t)
	req := f.create(t)

	claimed, err := f.svc.Update(f.ctx, f.sup.ID, domain.RoleSupporter, UpdateRequestInput{ID: req.ID, Status: strPtr("IN_PROGRESS")})
	require.NoError(t, err)
	require.NotNil(t, claimed.AssignedToID)
	assert.Equal(t, f.sup.ID, *claimed.AssignedToID)

	res, err := f.messages.Send(f.ctx, f.sup.ID, req.ID, "I can help")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Pat", res.Message.SenderName)

	events := f.bc.all()
	require.Len(t, events, 1)
	assert.Equal(t, req.ID, events[0].requestID)
	assert.Equal(t, ws.EventReceiveMessage, events[0].event.Event)

	supUnread, err := f.unread.HasUnread(f.ctx, f.sup.ID)
	require.NoError(t, err)
	assert.False(t, supUnread)

	page, err := f.unread.ListUnread(f.ctx, f.shelter.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.UnreadRequests, 1)
	entry := page.UnreadRequests[0]
	assert.Equal(t, req.ID, entry.RequestID)
	assert.Equal(t, "Need blankets", entry.Title)
	assert.Equal(t, "Pat", entry.LastMessageFrom)
	assert.EqualValues(t, 1, entry.UnreadCount)
	assert.EqualValues(t, 1, page.Pagination.TotalUnread)

	require.NoError(t, f.unread.MarkRead(f.ctx, f.shelter.ID, req.ID))
	page, err = f.unread.ListUnread(f.ctx, f.shelter.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.UnreadRequests)
	require.NoError(t, f.unread.MarkRead(f.ctx, f.shelter.ID, req.ID))

	done, err := f.svc.Update(f.ctx, f.shelter.ID, domain.RoleShelter, UpdateRequestInput{ID: req.ID, Status: strPtr("COMPLETED")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	_, err = f.svc.Update(f.ctx, f.sup.ID, domain.RoleSupporter, UpdateRequestInput{ID: req.ID, Status: strPtr("COMPLETED")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSendRecipients(t *testing.T) {
	f := newChatFixture(t)
	req := testutil.CreateRequest(t, f.db, f.shelter, testutil.WithStatus(domain.StatusInProgress, f.sup))

	_, err := f.messages.Send(f.ctx, f.shelter.ID, req.ID, "thanks")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.unreadCount(t, f.sup.ID, req.ID))
	assert.Zero(t, f.unreadCount(t, f.shelter.ID, req.ID))

	_, err = f.messages.Send(f.ctx, f.sup2.ID, req.ID, "me too")
	require.NoError(t, err)
	for _, u := range []*models.User{f.shelter, f.sup} {
		exists, err := f.unread.HasUnread(f.ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	}
	assert.EqualValues(t, 2, f.unreadCount(t, f.sup.ID, req.ID))
}

func TestSendValidation(t *testing.T) {
	f := newChatFixture(t)
	req := f.create(t)

	_, err := f.messages.Send(f.ctx, f.sup.ID, req.ID, "   ")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "text", apperrors.As(err).Field)

	_, err = f.messages.Send(f.ctx, f.sup.ID, 0, "hi")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.messages.Send(f.ctx, f.sup.ID, 9999, "hi")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.bc.all())
}

func TestListMessagesInOrder(t *testing.T) {
	f := newChatFixture(t)
	req := f.create(t)
	texts := []string{"one", "two", "three", "four"}
	for i, text := range texts {
		sender := f.sup
		if i%2 == 1 {
			sender = f.shelter
		}
		_, err := f.messages.Send(f.ctx, sender.ID, req.ID, text)
		require.NoError(t, err)
	}

	list, err := f.messages.List(f.ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, list, len(texts))
	for i, m := range list {
		assert.Equal(t, texts[i], m.Text)
	}
}

type flakyLedger struct {
	inner  unreadWriter
	failOn uint
}

func (l *flakyLedger) Insert(ctx context.Context, userID, messageID, requestID uint) (bool, error) {
	if userID == l.failOn {
		return false, errors.New("disk full")
	}
	return l.inner.Insert(ctx, userID, messageID, requestID)
}

func TestFanOutFailureIsNonFatal(t *testing.T) {
	f := newChatFixture(t)
	req := testutil.CreateRequest(t, f.db, f.shelter, testutil.WithStatus(domain.StatusInProgress, f.sup))

	ledger := &flakyLedger{inner: f.unreadDB, failOn: f.shelter.ID}
	notifier := NewNotificationService(repository.NewRequestRepository(f.db), ledger, repository.NewUserRepository(f.db), nil)
	svc := NewMessageService(repository.NewMessageRepository(f.db), notifier, f.bc)

	res, err := svc.Send(f.ctx, f.sup2.ID, req.ID, "hello both")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unread marker")

	list, err := svc.List(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, f.bc.all(), 1)

	assert.EqualValues(t, 1, f.unreadCount(t, f.sup.ID, req.ID))
}

func TestBroadcastFailureIsNonFatal(t *testing.T) {
	f := newChatFixture(t)
	req := f.create(t)
	f.bc.err = errors.New("redis down")

	res, err := f.messages.Send(f.ctx, f.sup.ID, req.ID, "anyone?")
	require.NoError(t, err)
	assert.Equal(t, []string{"realtime delivery failed"}, res.Warnings)
}

func TestSendPushesToRecipientsWithToken(t *testing.T) {
	f := newChatFixture(t)
	req := f.create(t)
	require.NoError(t, repository.NewUserRepository(f.db).UpdatePushToken(f.ctx, f.shelter.ID, "device-1"))

	pusher := &fakePusher{}
	notifier := NewNotificationService(repository.NewRequestRepository(f.db), f.unreadDB, repository.NewUserRepository(f.db), pusher)
	svc := NewMessageService(repository.NewMessageRepository(f.db), notifier, f.bc)

	_, err := svc.Send(f.ctx, f.sup.ID, req.ID, "On my way")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return pusher.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	pusher.mu.Lock()
	call := pusher.calls[0]
	pusher.mu.Unlock()
	assert.Equal(t, "device-1", call.token)
	assert.Equal(t, "Need blankets", call.title)
	assert.Equal(t, "Pat: On my way", call.body)
	assert.Equal(t, NotificationNewMessage, call.data["type"])
}
