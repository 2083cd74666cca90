package templink

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultConsumedCacheSize = 4096

// ConsumedTracker remembers the most recently consumed one-time tokens,
// bounded so that a flood of links cannot grow it without limit.
type ConsumedTracker struct {
	cache *lru.Cache[string, time.Time]
}

func NewConsumedTracker(size int) (*ConsumedTracker, error) {
	if size <= 0 {
		size = DefaultConsumedCacheSize
	}
	cache, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	return &ConsumedTracker{cache: cache}, nil
}

func (t *ConsumedTracker) Record(token string, at time.Time) {
	t.cache.Add(token, at)
}

// ConsumedAt returns when token was consumed, if it is still remembered.
func (t *ConsumedTracker) ConsumedAt(token string) (time.Time, bool) {
	return t.cache.Get(token)
}

func (t *ConsumedTracker) Len() int {
	return t.cache.Len()
}
