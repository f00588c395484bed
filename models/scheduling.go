package models

import "time"

type Scheduling struct {
	ID       uint  `gorm:"primaryKey"`
	ClientID *uint `gorm:"index"`
	Client   *Client
	LawyerID uint `gorm:"not null;index"`
	Lawyer   *Lawyer
	// contact address given by the client when booking
	ClientContact string
	ScheduledAt   time.Time

	Closed        bool   `gorm:"not null;default:false;index"`
	Justification string `gorm:"size:100"`
	ClosureReason string `gorm:"size:20"`
	ClosedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type SchedulingClosure struct {
	SchedulingID  uint
	Justification string
	Reason        string
	ClosedAt      time.Time
	// nil when no review permission should be granted
	MayReview *MayReview
}

type Divulgation struct {
	ID           uint `gorm:"primaryKey"`
	ClientID     uint `gorm:"not null;index"`
	Client       *Client
	Title        string `gorm:"not null"`
	Description  string
	RegisteredAt time.Time
	Closed       bool `gorm:"not null;default:false"`
	Messages     []Message
}

type Message struct {
	ID            uint `gorm:"primaryKey"`
	DivulgationID uint `gorm:"not null;index"`
	LawyerID      uint `gorm:"not null;index"`
	Lawyer        *Lawyer
	Text          string    `gorm:"not null"`
	SentAt        time.Time `gorm:"index"`
}
