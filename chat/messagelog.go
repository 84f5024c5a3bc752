package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miguelmmattar/batepapo-uol-api/model"
	"github.com/miguelmmattar/batepapo-uol-api/storage"
)

// MessageLog is the append-only log of chat events with a per-user
// visibility filter applied at read time.
type MessageLog struct {
	store storage.Storage
	now   func() time.Time
}

func NewMessageLog(store storage.Storage) *MessageLog {
	return &MessageLog{
		store: store,
		now:   time.Now,
	}
}

// Append validates and persists a message from an active participant,
// assigning the id and creation time.
func (l *MessageLog) Append(ctx context.Context, from string, req model.MessageRequest) (model.Message, error) {
	if err := validateMessage(req); err != nil {
		return model.Message{}, err
	}
	if from == "" {
		return model.Message{}, ErrUnknownSender
	}
	if _, err := l.store.GetParticipant(ctx, from); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Message{}, ErrUnknownSender
		}
		return model.Message{}, fmt.Errorf("fail to check sender %s, err: %w", from, err)
	}
	m := model.Message{
		ID:   uuid.NewString(),
		From: from,
		To:   req.To,
		Text: req.Text,
		Type: req.Type,
		Time: l.now().Format("03:04:05"),
	}
	if err := l.store.AppendMessage(ctx, m); err != nil {
		return model.Message{}, fmt.Errorf("fail to append message, err: %w", err)
	}
	return m, nil
}

// ListVisibleTo returns the messages the given user may see, in creation
// order. A positive limit keeps only the last limit matches.
func (l *MessageLog) ListVisibleTo(ctx context.Context, user string, limit int) ([]model.Message, error) {
	all, err := l.store.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	var visible []model.Message
	for _, m := range all {
		if m.VisibleTo(user) {
			visible = append(visible, m)
		}
	}
	if limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	return visible, nil
}

// Edit updates to/text/type of an existing message. Only the original
// sender may edit; from, id and time never change.
func (l *MessageLog) Edit(ctx context.Context, id, requester string, req model.MessageRequest) error {
	m, err := l.store.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to get message %s, err: %w", id, err)
	}
	if m.From != requester {
		return ErrForbidden
	}
	if err := validateMessage(req); err != nil {
		return err
	}
	m.To = req.To
	m.Text = req.Text
	m.Type = req.Type
	if err := l.store.UpdateMessage(ctx, m); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to update message %s, err: %w", id, err)
	}
	return nil
}

// Delete removes a message permanently. Same ownership rule as Edit.
func (l *MessageLog) Delete(ctx context.Context, id, requester string) error {
	m, err := l.store.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to get message %s, err: %w", id, err)
	}
	if m.From != requester {
		return ErrForbidden
	}
	if err := l.store.DeleteMessage(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to delete message %s, err: %w", id, err)
	}
	return nil
}
