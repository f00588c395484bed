package models

import "time"

type Lawyer struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"not null;uniqueIndex"`
	User       *User
	Name       string `gorm:"not null"`
	Info       string
	Rating     int `gorm:"not null;default:0"`
	AddressID  *uint
	Address    *Address
	Authorized bool `gorm:"not null;index"`
	Areas      []LawyerArea
	Reviews    []Review

	// Filled by SearchLawyers only.
	ReviewCount int64 `gorm:"->;-:migration"`

	CreatedAt time.Time
}

type PracticeArea struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;unique"`
}

type LawyerArea struct {
	ID             uint `gorm:"primaryKey"`
	LawyerID       uint `gorm:"not null;uniqueIndex:idx_lawyer_area"`
	PracticeAreaID uint `gorm:"not null;uniqueIndex:idx_lawyer_area"`
	PracticeArea   *PracticeArea
}

type Review struct {
	ID        uint `gorm:"primaryKey"`
	LawyerID  uint `gorm:"not null;index"`
	ClientID  uint `gorm:"not null;index"`
	Rating    int  `gorm:"not null"`
	Comment   string
	CreatedAt time.Time
}

// MayReview grants a client permission to review a lawyer.
type MayReview struct {
	ID        uint `gorm:"primaryKey"`
	LawyerID  uint `gorm:"not null;index"`
	ClientID  uint `gorm:"not null;index"`
	CreatedAt time.Time
}
