package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/miguelmmattar/batepapo-uol-api/model"
	"github.com/miguelmmattar/batepapo-uol-api/storage"
)

const participantsCacheKey = "participants"

// Registry tracks the active participants of the room. The store is the
// single source of truth; the cache only fronts List with a short TTL and
// is invalidated whenever membership changes.
type Registry struct {
	store storage.Storage
	cache *gocache.Cache
	now   func() time.Time
}

func NewRegistry(store storage.Storage, cacheTTL time.Duration) *Registry {
	return &Registry{
		store: store,
		cache: gocache.New(cacheTTL, time.Minute),
		now:   time.Now,
	}
}

// Register adds a new participant and appends the join notice to the
// message log. The store enforces name uniqueness atomically.
func (r *Registry) Register(ctx context.Context, name string) error {
	if err := validateRegister(model.RegisterRequest{Name: name}); err != nil {
		return err
	}
	p := model.Participant{
		Name:       name,
		LastStatus: r.now().UnixMilli(),
	}
	if err := r.store.CreateParticipant(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return ErrNameTaken
		}
		return fmt.Errorf("fail to register participant %s, err: %w", name, err)
	}
	r.cache.Delete(participantsCacheKey)
	if err := r.store.AppendMessage(ctx, r.notice(name, "entra na sala...")); err != nil {
		return fmt.Errorf("fail to append join notice for %s, err: %w", name, err)
	}
	return nil
}

// Heartbeat refreshes the participant's lastStatus timestamp.
func (r *Registry) Heartbeat(ctx context.Context, name string) error {
	p, err := r.store.GetParticipant(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to get participant %s, err: %w", name, err)
	}
	p.LastStatus = r.now().UnixMilli()
	if err := r.store.UpdateParticipant(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fail to refresh participant %s, err: %w", name, err)
	}
	return nil
}

// List returns all active participants, read through a short-lived cache.
func (r *Registry) List(ctx context.Context) ([]model.Participant, error) {
	if cached, ok := r.cache.Get(participantsCacheKey); ok {
		return cached.([]model.Participant), nil
	}
	participants, err := r.store.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(participantsCacheKey, participants)
	return participants, nil
}

// SweepStale removes every participant whose last heartbeat is older than
// ttl at the given instant, appending a leave notice for each before the
// record is deleted. It returns the names it evicted; on error the evicted
// names so far are returned and the next cycle retries the rest.
func (r *Registry) SweepStale(ctx context.Context, now time.Time, ttl time.Duration) ([]string, error) {
	participants, err := r.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("fail to list participants, err: %w", err)
	}
	var evicted []string
	for _, p := range participants {
		if !p.StaleSince(now, ttl) {
			continue
		}
		if err := r.store.AppendMessage(ctx, r.notice(p.Name, "sai da sala...")); err != nil {
			return evicted, fmt.Errorf("fail to append leave notice for %s, err: %w", p.Name, err)
		}
		if err := r.store.DeleteParticipant(ctx, p.Name); err != nil {
			return evicted, fmt.Errorf("fail to delete participant %s, err: %w", p.Name, err)
		}
		evicted = append(evicted, p.Name)
	}
	if len(evicted) > 0 {
		r.cache.Delete(participantsCacheKey)
	}
	return evicted, nil
}

func (r *Registry) notice(name, text string) model.Message {
	return model.Message{
		ID:   uuid.NewString(),
		From: name,
		To:   model.BroadcastRecipient,
		Text: text,
		Type: model.TypeStatus,
		Time: r.now().Format("03:04:05"),
	}
}
