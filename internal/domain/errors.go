package domain

import "errors"

var (
	ErrLinkNotFound       = errors.New("no such link")
	ErrLinkInactive       = errors.New("link is inactive")
	ErrEmptyOriginalURL   = errors.New("original url is empty")
	ErrInvalidShortCode   = errors.New("invalid short code")
	ErrCodeSpaceExhausted = errors.New("short code generation retries exhausted")
	ErrNoActiveMonetizer  = errors.New("no active monetizer configured")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrAlreadyBanned      = errors.New("ip is already banned")
	ErrBanNotFound        = errors.New("no active ban for ip")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)
