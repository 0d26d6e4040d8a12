package models

import "time"

// Message is one immutable chat line in a request's conversation.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index:idx_messages_request_created,priority:1" json:"request_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_messages_request_created,priority:2" json:"created_at"`

	Request Request `gorm:"foreignKey:RequestID" json:"-"`
	Sender  User    `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageView is a message annotated with its sender's display name.
type MessageView struct {
	ID         uint      `json:"id"`
	RequestID  uint      `json:"request_id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
