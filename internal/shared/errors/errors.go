package errors

import "errors"

var (
	ErrNoChannels           = errors.New("at least one channel must be configured")
	ErrUnauthorized         = errors.New("unauthorized user")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrInvalidFilter        = errors.New("invalid filter")
	ErrTransport            = errors.New("transport failure")
	ErrTransportUnavailable = errors.New("streaming API unreachable for the whole batch")
	ErrInvalidBaseURL       = errors.New("invalid API base URL")
)
