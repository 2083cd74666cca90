package templink

import (
	"fmt"
	"time"

	"github.com/orris-inc/templink/internal/domain/templink"
)

// ExpirationLayout is the ISO-8601 form used in exports: UTC with
// millisecond precision, e.g. 2024-05-01T10:00:00.000Z.
const ExpirationLayout = "2006-01-02T15:04:05.000Z07:00"

// ExportedLink is the serializable form of a link. Callbacks are never
// part of it.
type ExportedLink[R any] struct {
	Expiration string `json:"expiration" yaml:"expiration"`
	OneTime    bool   `json:"oneTime" yaml:"oneTime"`
	Method     string `json:"method,omitempty" yaml:"method,omitempty"`
	Refs       R      `json:"refs" yaml:"refs"`
	Redirect   string `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

// Snapshot maps tokens to their exported links.
type Snapshot[R any] map[string]ExportedLink[R]

// ImportResult reports how an import batch went. Expired entries are
// skipped, malformed entries fail; neither stops the batch.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  []string         `json:"skipped,omitempty"`
	Failed   map[string]error `json:"-"`
}

// FailedCount returns the number of entries that could not be parsed.
func (r ImportResult) FailedCount() int {
	return len(r.Failed)
}

// Export returns every live link in serializable form.
func (s *Store[R]) Export() Snapshot[R] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(Snapshot[R], len(s.links))
	for token, link := range s.links {
		snapshot[token] = ExportedLink[R]{
			Expiration: link.Expiration().UTC().Format(ExpirationLayout),
			OneTime:    link.OneTime(),
			Method:     link.Method(),
			Refs:       link.Refs(),
			Redirect:   link.Redirect(),
		}
	}
	return snapshot
}

// Import inserts previously exported links. callback is applied to every
// imported link since callbacks cannot be serialized; links with neither a
// redirect nor a callback take the store default pair. Links whose
// expiration has already passed are skipped, and an entry with an
// unparsable expiration fails on its own without affecting the rest.
// An imported token replaces a live link with the same token.
func (s *Store[R]) Import(snapshot Snapshot[R], callback templink.Callback) ImportResult {
	result := ImportResult{Failed: make(map[string]error)}
	now := s.nowFunc()

	imported := make([]*templink.Link[R], 0, len(snapshot))

	s.mu.Lock()
	for token, entry := range snapshot {
		link, err := s.importEntry(token, entry, callback)
		if err != nil {
			result.Failed[token] = err
			continue
		}
		if link.IsExpired(now) {
			result.Skipped = append(result.Skipped, token)
			continue
		}
		s.links[token] = link
		imported = append(imported, link)
	}
	s.mu.Unlock()

	result.Imported = len(imported)
	for _, link := range imported {
		s.publishAdded(link, true)
	}

	s.logger.Infow("links imported",
		"imported", result.Imported,
		"skipped_expired", len(result.Skipped),
		"failed", result.FailedCount(),
	)
	return result
}

func (s *Store[R]) importEntry(token string, entry ExportedLink[R], callback templink.Callback) (*templink.Link[R], error) {
	if token == "" {
		return nil, templink.ErrEmptyToken
	}
	expiration, err := ParseExpiration(entry.Expiration)
	if err != nil {
		return nil, err
	}

	redirect, cb := s.cfg.inheritAction(&entry.Redirect, callback)
	return templink.NewLink(token, expiration, entry.OneTime, entry.Method, entry.Refs, redirect, cb)
}

// ParseExpiration parses an exported ISO-8601 expiration.
func ParseExpiration(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", templink.ErrInvalidExpiration, value)
	}
	return t.UTC(), nil
}
