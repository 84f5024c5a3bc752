package chat

import "errors"

var (
	ErrInvalidName    = errors.New("invalid participant name")
	ErrNameTaken      = errors.New("participant name already taken")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("requester is not the message sender")
	ErrInvalidMessage = errors.New("invalid message")
	ErrUnknownSender  = errors.New("unknown sender")
)
