package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	chatChannelPrefix    = "chat:user:"
	presenceKeyPrefix    = "presence:user:"
	presenceHeartbeatTTL = 60 * time.Second
)

// ChatService persists messages to the durable log and fans them out over
// Redis pub/sub. Presence is a TTL key refreshed by client heartbeats.
type ChatService interface {
	SendMessage(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.ChatMessage, *ServiceError)
	History(ctx context.Context, userA, userB string, limit int) ([]models.ChatMessage, *ServiceError)
	Heartbeat(ctx context.Context, userID string) *ServiceError
	IsOnline(ctx context.Context, userID string) (bool, *ServiceError)
	// Subscribe opens the user's message channel. The channel closes when the
	// context is cancelled or the returned stop function is called.
	Subscribe(ctx context.Context, userID string) (<-chan models.ChatEvent, func())
}

type chatServiceImpl struct {
	chatRepo repository.ChatRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, rdb *redis.Client, logger *zap.Logger) ChatService {
	return &chatServiceImpl{chatRepo: chatRepo, rdb: rdb, logger: logger}
}

func (s *chatServiceImpl) SendMessage(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.ChatMessage, *ServiceError) {
	msg := &models.ChatMessage{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := s.chatRepo.Save(ctx, msg); err != nil {
		s.logger.Error("Failed to persist chat message",
			zap.String("sender_id", senderID),
			zap.String("recipient_id", req.RecipientID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to send message"}
	}

	// Fan-out is best effort. The message is already in the log; an offline
	// recipient picks it up from history.
	event := models.ChatEvent{
		MessageID:   msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Body:        msg.Body,
		Timestamp:   msg.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err == nil {
		err = s.rdb.Publish(ctx, chatChannelPrefix+req.RecipientID, payload).Err()
	}
	if err != nil {
		s.logger.Warn("Failed to publish chat event",
			zap.String("recipient_id", req.RecipientID),
			zap.Error(err),
		)
	}

	return msg, nil
}

func (s *chatServiceImpl) History(ctx context.Context, userA, userB string, limit int) ([]models.ChatMessage, *ServiceError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages, err := s.chatRepo.History(ctx, userA, userB, limit)
	if err != nil {
		s.logger.Error("Failed to fetch chat history", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch chat history"}
	}
	return messages, nil
}

func (s *chatServiceImpl) Heartbeat(ctx context.Context, userID string) *ServiceError {
	if err := s.rdb.Set(ctx, presenceKeyPrefix+userID, "1", presenceHeartbeatTTL).Err(); err != nil {
		s.logger.Error("Failed to record presence heartbeat", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to record heartbeat"}
	}
	return nil
}

func (s *chatServiceImpl) IsOnline(ctx context.Context, userID string) (bool, *ServiceError) {
	n, err := s.rdb.Exists(ctx, presenceKeyPrefix+userID).Result()
	if err != nil {
		s.logger.Error("Failed to check presence", zap.String("user_id", userID), zap.Error(err))
		return false, &ServiceError{StatusCode: 500, Message: "Failed to check presence"}
	}
	return n > 0, nil
}

func (s *chatServiceImpl) Subscribe(ctx context.Context, userID string) (<-chan models.ChatEvent, func()) {
	sub := s.rdb.Subscribe(ctx, chatChannelPrefix+userID)
	events := make(chan models.ChatEvent)

	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var event models.ChatEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("Dropping malformed chat event", zap.String("user_id", userID), zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { _ = sub.Close() }
}
