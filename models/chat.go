package models

import "time"

// ChatMessage is the durable chat log row persisted in Postgres. Real-time
// fan-out happens over Redis pub/sub; this table is the source of truth for
// history re-fetch.
type ChatMessage struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderID    string    `json:"sender_id" gorm:"type:varchar(64);not null;index"`
	RecipientID string    `json:"recipient_id" gorm:"type:varchar(64);not null;index"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Body        string `json:"body" binding:"required,max=4000"`
}

// ChatEvent is the payload pushed on the recipient's Redis channel.
type ChatEvent struct {
	MessageID   int64     `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}
