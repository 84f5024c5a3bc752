package model

import "time"

// Participant is an active chat-room member. The name is the primary
// identity and must be unique among active participants.
type Participant struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

// StaleSince reports whether the participant's last heartbeat is older
// than ttl at the given instant. The comparison always uses the
// per-participant LastStatus timestamp.
func (p Participant) StaleSince(now time.Time, ttl time.Duration) bool {
	last := time.UnixMilli(p.LastStatus)
	return now.Sub(last) > ttl
}

// RegisterRequest is the body of POST /participants.
type RegisterRequest struct {
	Name string `json:"name" validate:"required"`
}
