package templink

import (
	"fmt"
	"sync"
	"time"

	"github.com/orris-inc/templink/internal/domain/shared/events"
	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/shared/logger"
)

// sequenceGenerator hands out tokens from a fixed list, then numbered ones.
type sequenceGenerator struct {
	mu     sync.Mutex
	tokens []string
	n      int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.tokens) > 0 {
		t := g.tokens[0]
		g.tokens = g.tokens[1:]
		return t, nil
	}
	g.n++
	return fmt.Sprintf("token-%04d", g.n), nil
}

type failingGenerator struct{ err error }

func (g failingGenerator) Generate() (string, error) { return "", g.err }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeRequest struct {
	params   map[string]string
	method   string
	attached map[string]any
}

func newFakeRequest(method, token string) *fakeRequest {
	return &fakeRequest{
		params:   map[string]string{DefaultParamName: token},
		method:   method,
		attached: map[string]any{},
	}
}

func (r *fakeRequest) Param(name string) string     { return r.params[name] }
func (r *fakeRequest) Method() string               { return r.method }
func (r *fakeRequest) Attach(key string, value any) { r.attached[key] = value }

type fakeResponse struct {
	mu        sync.Mutex
	redirects []string
}

func (r *fakeResponse) Redirect(location string) {
	r.mu.Lock()
	r.redirects = append(r.redirects, location)
	r.mu.Unlock()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(e events.DomainEvent) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	return nil
}

// countingCallback records how often it ran and optionally calls next.
type countingCallback struct {
	calls    int
	callNext bool
}

func (c *countingCallback) Invoke(_ templink.Request, _ templink.Response, next templink.Next) {
	c.calls++
	if c.callNext {
		next()
	}
}

func newTestStore[R any](cfg Config[R], opts ...StoreOption) (*Store[R], *fakeClock) {
	clock := newFakeClock()
	opts = append([]StoreOption{WithClock(clock.Now)}, opts...)
	store, err := NewStore(cfg, &sequenceGenerator{}, logger.NewNopLogger(), opts...)
	if err != nil {
		panic(err)
	}
	return store, clock
}
