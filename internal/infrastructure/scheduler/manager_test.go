package scheduler

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/infrastructure/token"
	"github.com/orris-inc/templink/internal/shared/logger"
)

func newTestManager(t *testing.T) *SchedulerManager {
	t.Helper()
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })
	return m
}

func TestRegisterSweepJob_RejectsNonPositiveInterval(t *testing.T) {
	m := newTestManager(t)

	noop := func(context.Context) (int, error) { return 0, nil }
	assert.ErrorIs(t, m.RegisterSweepJob("sweep", 0, noop), ErrInvalidInterval)
	assert.ErrorIs(t, m.RegisterSnapshotJob(-time.Second, func(context.Context) error { return nil }), ErrInvalidInterval)
	assert.Empty(t, m.Jobs())
}

func TestRegisterSweepJob_RunsPeriodically(t *testing.T) {
	m := newTestManager(t)

	var runs atomic.Int32
	require.NoError(t, m.RegisterSweepJob("counting", 50*time.Millisecond, func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	}))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "counting", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestRegisterSnapshotJob_RunsSave(t *testing.T) {
	m := newTestManager(t)

	saved := make(chan struct{}, 1)
	require.NoError(t, m.RegisterSnapshotJob(50*time.Millisecond, func(context.Context) error {
		select {
		case saved <- struct{}{}:
		default:
		}
		return nil
	}))
	m.Start()

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot job did not run")
	}
}

func TestStoreSweeper_EvictsExpiredLinks(t *testing.T) {
	store, err := apptemplink.NewStore(apptemplink.Config[string]{
		TimeOut:  time.Second,
		Interval: time.Second,
		Redirect: "/x",
	}, token.NewTokenGenerator(), logger.NewNopLogger())
	require.NoError(t, err)

	m := newTestManager(t)
	require.NoError(t, store.StartSweeper(m))
	t.Cleanup(func() { _ = store.Close() })

	expiring, err := store.Add(apptemplink.LinkOptions[string]{})
	require.NoError(t, err)
	lasting, err := store.Add(apptemplink.LinkOptions[string]{TimeOut: apptemplink.Ptr(time.Minute)})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := store.Lookup(expiring)
		return !ok
	}, 3*time.Second, 50*time.Millisecond)

	_, ok := store.Lookup(lasting)
	assert.True(t, ok)

	require.NoError(t, store.Close())
	assert.False(t, m.IsStarted())
}

func TestStoreSweeper_ConsumedLinkGoneBeforeSweep(t *testing.T) {
	store, err := apptemplink.NewStore(apptemplink.Config[string]{
		TimeOut:  time.Minute,
		Interval: time.Hour,
	}, token.NewTokenGenerator(), logger.NewNopLogger())
	require.NoError(t, err)

	m := newTestManager(t)
	require.NoError(t, store.StartSweeper(m))
	defer store.Close()

	tok, err := store.Get(apptemplink.LinkOptions[string]{Redirect: apptemplink.Ptr("/x")})
	require.NoError(t, err)

	req := &stubRequest{method: http.MethodGet, token: tok}
	resp := &stubResponse{}
	assert.Equal(t, apptemplink.Matched, store.Dispatch(req, resp, nil))
	assert.Equal(t, apptemplink.TokenUnknown, store.Dispatch(req, resp, nil))
	assert.Equal(t, []string{"/x"}, resp.redirects)
	assert.Equal(t, 0, store.Len())
}

type stubRequest struct {
	method string
	token  string
}

func (r *stubRequest) Param(string) string { return r.token }
func (r *stubRequest) Method() string     { return r.method }
func (r *stubRequest) Attach(string, any) {}

type stubResponse struct{ redirects []string }

func (r *stubResponse) Redirect(location string) { r.redirects = append(r.redirects, location) }
