package models

import (
	"time"

	"shelterconnect/internal/domain"
)

// Request is a help request posted by a shelter. AssignedToID is set exactly when Status is
// IN_PROGRESS or COMPLETED.
type Request struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	Title        string               `gorm:"size:255;not null" json:"title"`
	Type         domain.RequestType   `gorm:"size:20;not null;index" json:"type"`
	Urgency      domain.Urgency       `gorm:"size:20;not null;index" json:"urgency"`
	Status       domain.RequestStatus `gorm:"size:20;not null;index;default:PENDING" json:"status"`
	DueDate      *time.Time           `json:"due_date"`
	Details      string               `gorm:"type:text;not null" json:"details"`
	Location     string               `gorm:"size:255;not null;index" json:"location"`
	CreatorID    uint                 `gorm:"not null;index" json:"creator_id"`
	AssignedToID *uint                `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`

	Creator    User  `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}

func (r *Request) Snapshot() domain.RequestSnapshot {
	return domain.RequestSnapshot{Status: r.Status, CreatorID: r.CreatorID}
}

// Participants are the users who receive unread markers for a request's chat.
type Participants struct {
	CreatorID    uint
	AssignedToID *uint
}
