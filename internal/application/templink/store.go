// Package templink implements the temporary link store: token minting,
// lookup, one-time consumption, expiration sweeps, export/import and the
// request dispatch hook.
package templink

import (
	"net/http"
	"sync"
	"time"

	"github.com/orris-inc/templink/internal/domain/shared/events"
	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/utils"
)

// maxTokenAttempts bounds regeneration on collision. With 256 bits of
// entropy a second attempt is already unheard of.
const maxTokenAttempts = 16

// TokenGenerator produces unguessable link tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// StoreOption customizes a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	publisher events.EventPublisher
	consumed  *ConsumedTracker
	nowFunc   func() time.Time
}

// WithEventPublisher publishes a LinkAddedEvent for every inserted link.
func WithEventPublisher(p events.EventPublisher) StoreOption {
	return func(o *storeOptions) {
		o.publisher = p
	}
}

// WithConsumedTracker remembers consumed one-time tokens so Status can tell
// them apart from tokens that never existed.
func WithConsumedTracker(t *ConsumedTracker) StoreOption {
	return func(o *storeOptions) {
		o.consumed = t
	}
}

// WithClock overrides the wall clock. Used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.nowFunc = now
	}
}

// Store maps tokens to links. It is safe for concurrent use by the sweeper
// and any number of dispatching requests.
type Store[R any] struct {
	cfg    Config[R]
	gen    TokenGenerator
	logger logger.Interface

	publisher events.EventPublisher
	consumed  *ConsumedTracker
	nowFunc   func() time.Time

	mu    sync.RWMutex
	links map[string]*templink.Link[R]

	sweepMu sync.Mutex
	sweeper SweepScheduler
	closed  bool
}

// NewStore builds an empty store. The sweeper is not running until
// StartSweeper is called.
func NewStore[R any](cfg Config[R], gen TokenGenerator, log logger.Interface, opts ...StoreOption) (*Store[R], error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	o := storeOptions{nowFunc: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[R]{
		cfg:       cfg,
		gen:       gen,
		logger:    log,
		publisher: o.publisher,
		consumed:  o.consumed,
		nowFunc:   o.nowFunc,
		links:     make(map[string]*templink.Link[R]),
	}, nil
}

// Config returns the store defaults after defaulting.
func (s *Store[R]) Config() Config[R] {
	return s.cfg
}

// Add mints a new link and returns its token.
func (s *Store[R]) Add(opts LinkOptions[R]) (string, error) {
	resolved := s.cfg.resolve(opts)
	expiration := s.nowFunc().Add(resolved.timeOut).Truncate(time.Millisecond)

	s.mu.Lock()
	token, err := s.uniqueTokenLocked()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	link, err := templink.NewLink(token, expiration, resolved.oneTime, resolved.method,
		resolved.refs, resolved.redirect, resolved.callback)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.links[token] = link
	s.mu.Unlock()

	s.logger.Debugw("link added",
		"token", utils.MaskToken(token),
		"expiration", link.Expiration(),
		"one_time", link.OneTime(),
		"method", link.Method(),
	)
	s.publishAdded(link, false)

	return token, nil
}

// Get mints a link that only GET requests can consume.
func (s *Store[R]) Get(opts LinkOptions[R]) (string, error) {
	opts.Method = Ptr(http.MethodGet)
	return s.Add(opts)
}

// Post mints a link that only POST requests can consume.
func (s *Store[R]) Post(opts LinkOptions[R]) (string, error) {
	opts.Method = Ptr(http.MethodPost)
	return s.Add(opts)
}

// Lookup returns the link stored under token without side effects.
func (s *Store[R]) Lookup(token string) (*templink.Link[R], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[token]
	return link, ok
}

// Delete removes token. Deleting an absent token is a no-op; the result
// reports whether a link was removed.
func (s *Store[R]) Delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[token]; !ok {
		return false
	}
	delete(s.links, token)
	return true
}

// Len returns the number of live links, including expired ones not yet swept.
func (s *Store[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// LinkStatus describes what the store knows about a token.
type LinkStatus string

const (
	StatusActive   LinkStatus = "active"
	StatusConsumed LinkStatus = "consumed"
	StatusUnknown  LinkStatus = "unknown"
)

// Status reports whether token is live, was consumed recently, or is unknown.
// consumedAt is only set for StatusConsumed.
func (s *Store[R]) Status(token string) (status LinkStatus, link *templink.Link[R], consumedAt time.Time) {
	if link, ok := s.Lookup(token); ok && !link.IsExpired(s.nowFunc()) {
		return StatusActive, link, time.Time{}
	}
	if s.consumed != nil {
		if at, ok := s.consumed.ConsumedAt(token); ok {
			return StatusConsumed, nil, at
		}
	}
	return StatusUnknown, nil, time.Time{}
}

// uniqueTokenLocked must be called with s.mu held for writing.
func (s *Store[R]) uniqueTokenLocked() (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := s.gen.Generate()
		if err != nil {
			return "", err
		}
		if _, taken := s.links[token]; !taken && token != "" {
			return token, nil
		}
		s.logger.Warnw("link token collision, regenerating", "attempt", attempt+1)
	}
	return "", templink.ErrTokenSpaceExhausted
}

func (s *Store[R]) publishAdded(link *templink.Link[R], imported bool) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(templink.NewLinkAddedEvent(link, imported)); err != nil {
		s.logger.Warnw("failed to publish link added event", "error", err)
	}
}
