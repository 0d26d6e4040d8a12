package models

import "time"

// UnreadMessage marks that UserID has not seen MessageID yet. Rows are deleted per
// (user, request) when the user reads the conversation.
type UnreadMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_unread_user_message,priority:1;index:idx_unread_user_request,priority:1" json:"user_id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_unread_user_message,priority:2" json:"message_id"`
	RequestID uint      `gorm:"not null;index:idx_unread_user_request,priority:2" json:"request_id"`
	CreatedAt time.Time `json:"created_at"`

	Message Message `gorm:"foreignKey:MessageID" json:"-"`
	Request Request `gorm:"foreignKey:RequestID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (UnreadMessage) TableName() string {
	return "unread_messages"
}

// UnreadSummary groups a user's unread rows for one request.
type UnreadSummary struct {
	RequestID       uint      `json:"request_id"`
	Title           string    `json:"title"`
	LastMessageFrom string    `json:"last_message_from"`
	LastMessageDate time.Time `json:"last_message_date"`
	UnreadCount     int64     `json:"unread_count"`
}
