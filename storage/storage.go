package storage

import (
	"context"
	"errors"

	"github.com/miguelmmattar/batepapo-uol-api/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Storage is an interface that defines the methods to be implemented by a storage.
type Storage interface {
	CreateParticipant(ctx context.Context, p model.Participant) error
	GetParticipant(ctx context.Context, name string) (model.Participant, error)
	UpdateParticipant(ctx context.Context, p model.Participant) error
	ListParticipants(ctx context.Context) ([]model.Participant, error)
	DeleteParticipant(ctx context.Context, name string) error

	AppendMessage(ctx context.Context, m model.Message) error
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id string) (model.Message, error)
	UpdateMessage(ctx context.Context, m model.Message) error
	DeleteMessage(ctx context.Context, id string) error

	Close() error
}
