package repository

import (
	"context"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"gorm.io/gorm"
)

// ChatRepository defines data access for the durable chat message log.
type ChatRepository interface {
	Save(ctx context.Context, msg *models.ChatMessage) error
	// History returns messages exchanged between two users, oldest first.
	History(ctx context.Context, userA, userB string, limit int) ([]models.ChatMessage, error)
}

// GormChatRepository implements ChatRepository using GORM over Postgres.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Save(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormChatRepository) History(ctx context.Context, userA, userB string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	// Page from the newest end so long threads keep their recent messages
	// reachable, then flip back to chronological order.
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return oldestFirst(messages), nil
}

// oldestFirst reverses a newest-first page in place.
func oldestFirst(messages []models.ChatMessage) []models.ChatMessage {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}
