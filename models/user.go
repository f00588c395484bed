package models

import "time"

type User struct {
	ID              uint    `gorm:"primaryKey"`
	Email           string  `gorm:"not null;unique"`
	ProfilePhotoURL string  `gorm:"column:profile_photo_url"`
	Lawyer          *Lawyer `gorm:"foreignKey:UserID"`
	Client          *Client `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time
}

type Address struct {
	ID       uint `gorm:"primaryKey"`
	Street   string
	Number   string
	District string
	City     string `gorm:"not null;index"`
	State    string `gorm:"size:2;not null;index"`
	ZipCode  string
}

type Client struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex"`
	User      *User
	Name      string `gorm:"not null"`
	AddressID *uint
	Address   *Address
	CreatedAt time.Time
}
