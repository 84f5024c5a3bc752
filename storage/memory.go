package storage

import (
	"context"
	"sync"

	"github.com/miguelmmattar/batepapo-uol-api/contexthelper"
	"github.com/miguelmmattar/batepapo-uol-api/model"
)

var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage keeps everything in process memory. It exists for tests;
// the redis storage is the production backend.
type MemoryStorage struct {
	mu           sync.Mutex
	participants map[string]model.Participant
	messages     []model.Message
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		participants: make(map[string]model.Participant),
	}
}

func (s *MemoryStorage) CreateParticipant(ctx context.Context, p model.Participant) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[p.Name]; ok {
		return ErrDuplicate
	}
	s.participants[p.Name] = p
	return nil
}

func (s *MemoryStorage) GetParticipant(ctx context.Context, name string) (model.Participant, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return model.Participant{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[name]
	if !ok {
		return model.Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStorage) UpdateParticipant(ctx context.Context, p model.Participant) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[p.Name]; !ok {
		return ErrNotFound
	}
	s.participants[p.Name] = p
	return nil
}

func (s *MemoryStorage) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var participants []model.Participant
	for _, p := range s.participants {
		participants = append(participants, p)
	}
	return participants, nil
}

func (s *MemoryStorage) DeleteParticipant(ctx context.Context, name string) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, name)
	return nil
}

func (s *MemoryStorage) AppendMessage(ctx context.Context, m model.Message) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return nil
}

func (s *MemoryStorage) ListMessages(ctx context.Context) ([]model.Message, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]model.Message, len(s.messages))
	copy(messages, s.messages)
	return messages, nil
}

func (s *MemoryStorage) GetMessage(ctx context.Context, id string) (model.Message, error) {
	if contexthelper.CheckCancellation(ctx) != nil {
		return model.Message{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Message{}, ErrNotFound
}

func (s *MemoryStorage) UpdateMessage(ctx context.Context, m model.Message) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.messages {
		if existing.ID == m.ID {
			s.messages[i] = m
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) DeleteMessage(ctx context.Context, id string) error {
	if contexthelper.CheckCancellation(ctx) != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.messages {
		if existing.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) Close() error {
	return nil
}
