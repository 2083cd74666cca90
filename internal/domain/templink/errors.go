package templink

import "errors"

var (
	ErrEmptyToken          = errors.New("link token cannot be empty")
	ErrInvalidExpiration   = errors.New("link expiration is not a valid ISO-8601 timestamp")
	ErrInvalidTimeout      = errors.New("link timeout cannot be negative")
	ErrInvalidInterval     = errors.New("sweep interval cannot be negative")
	ErrTokenSpaceExhausted = errors.New("could not generate a unique link token")
	ErrStoreClosed         = errors.New("link store is closed")
	ErrSweeperRunning      = errors.New("link sweeper is already running")
	ErrSnapshotNotFound    = errors.New("link snapshot not found")
)
