package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/miguelmmattar/batepapo-uol-api/config"
	"github.com/miguelmmattar/batepapo-uol-api/contexthelper"
	"github.com/miguelmmattar/batepapo-uol-api/model"
)

const (
	participantsKey = "participants"
	messagesKey     = "messages"
)

var _ Storage = (*RedisStorage)(nil)

type RedisStorage struct {
	cfg    config.RedisServer
	client *redis.Client
}

// NewRedisStorage returns a new storage that use redis
func NewRedisStorage(cfg config.RedisServer) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.User,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	status := client.Ping(context.Background())
	if status.Err() != nil {
		return nil, status.Err()
	}
	return &RedisStorage{
		cfg:    cfg,
		client: client,
	}, nil
}

// CreateParticipant inserts a participant document. HSetNX makes the
// existence check and the insert a single atomic operation, so two
// concurrent registrations of the same name cannot both succeed.
func (s *RedisStorage) CreateParticipant(ctx context.Context, p model.Participant) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	buf, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("fail to marshal participant, err: %w", err)
	}
	created, err := s.client.HSetNX(ctx, participantsKey, p.Name, string(buf)).Result()
	if err != nil {
		return fmt.Errorf("fail to create participant %s, err: %w", p.Name, err)
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

// GetParticipant gets a participant by name.
func (s *RedisStorage) GetParticipant(ctx context.Context, name string) (model.Participant, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return model.Participant{}, ctx.Err()
	}
	result, err := s.client.HGet(ctx, participantsKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return model.Participant{}, ErrNotFound
	}
	if err != nil {
		return model.Participant{}, fmt.Errorf("fail to get participant %s, err: %w", name, err)
	}
	var p model.Participant
	if err := json.Unmarshal([]byte(result), &p); err != nil {
		return model.Participant{}, fmt.Errorf("fail to unmarshal participant, err: %w", err)
	}
	return p, nil
}

// UpdateParticipant overwrites an existing participant document. A sweep
// deleting the record between the existence check and the write can
// resurrect it for one cycle; that window is accepted.
func (s *RedisStorage) UpdateParticipant(ctx context.Context, p model.Participant) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	exists, err := s.client.HExists(ctx, participantsKey, p.Name).Result()
	if err != nil {
		return fmt.Errorf("fail to check participant %s, err: %w", p.Name, err)
	}
	if !exists {
		return ErrNotFound
	}
	buf, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("fail to marshal participant, err: %w", err)
	}
	if status := s.client.HSet(ctx, participantsKey, p.Name, string(buf)); status.Err() != nil {
		return fmt.Errorf("fail to update participant %s, err: %w", p.Name, status.Err())
	}
	return nil
}

// ListParticipants gets all active participants.
func (s *RedisStorage) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return nil, ctx.Err()
	}
	result, err := s.client.HVals(ctx, participantsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("fail to list participants, err: %w", err)
	}
	var participants []model.Participant
	for _, item := range result {
		var p model.Participant
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("fail to unmarshal participant, err: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// DeleteParticipant deletes a participant by name.
func (s *RedisStorage) DeleteParticipant(ctx context.Context, name string) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	if status := s.client.HDel(ctx, participantsKey, name); status.Err() != nil {
		return fmt.Errorf("fail to delete participant %s, err: %w", name, status.Err())
	}
	return nil
}

// AppendMessage appends a message to the log, preserving creation order.
func (s *RedisStorage) AppendMessage(ctx context.Context, m model.Message) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("fail to marshal message, err: %w", err)
	}
	if status := s.client.RPush(ctx, messagesKey, string(buf)); status.Err() != nil {
		return fmt.Errorf("fail to append message, err: %w", status.Err())
	}
	return nil
}

// ListMessages gets all messages in creation order.
func (s *RedisStorage) ListMessages(ctx context.Context) ([]model.Message, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return nil, ctx.Err()
	}
	result, err := s.client.LRange(ctx, messagesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("fail to list messages, err: %w", err)
	}
	var messages []model.Message
	for _, item := range result {
		var m model.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("fail to unmarshal message, err: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// GetMessage gets a message by id.
func (s *RedisStorage) GetMessage(ctx context.Context, id string) (model.Message, error) {
	messages, err := s.ListMessages(ctx)
	if err != nil {
		return model.Message{}, err
	}
	for _, m := range messages {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Message{}, ErrNotFound
}

// UpdateMessage replaces the message with the same id in place.
func (s *RedisStorage) UpdateMessage(ctx context.Context, m model.Message) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	messages, err := s.ListMessages(ctx)
	if err != nil {
		return err
	}
	index := int64(-1)
	for i, existing := range messages {
		if existing.ID == m.ID {
			index = int64(i)
			break
		}
	}
	if index < 0 {
		return ErrNotFound
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("fail to marshal message, err: %w", err)
	}
	if status := s.client.LSet(ctx, messagesKey, index, string(buf)); status.Err() != nil {
		return fmt.Errorf("fail to update message %s, err: %w", m.ID, status.Err())
	}
	return nil
}

// DeleteMessage deletes the message with the given id. The stored document
// is re-marshalled and removed by value, the way LRem expects.
func (s *RedisStorage) DeleteMessage(ctx context.Context, id string) error {
	messageToRemove, err := s.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(messageToRemove)
	if err != nil {
		return fmt.Errorf("fail to marshal message, err: %w", err)
	}
	if err := s.client.LRem(ctx, messagesKey, 1, string(buf)).Err(); err != nil {
		return fmt.Errorf("fail to delete message %s, err: %w", id, err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
