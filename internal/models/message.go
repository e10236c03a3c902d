package models

import "time"

type Message struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	SenderID    uint `gorm:"index:idx_message_pair" json:"sender_id"`
	RecipientID uint `gorm:"index:idx_message_pair" json:"recipient_id"`

	Body   string     `gorm:"type:text;not null" json:"body"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type Device struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Token    string `gorm:"size:255;uniqueIndex;not null" json:"token"`
	Platform string `gorm:"size:20" json:"platform"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
