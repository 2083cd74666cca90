package templink

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/templink/internal/domain/templink"
)

type mockSweepScheduler struct {
	mock.Mock
	task func(ctx context.Context) (int, error)
}

func (m *mockSweepScheduler) RegisterSweepJob(name string, interval time.Duration, task func(ctx context.Context) (int, error)) error {
	m.task = task
	args := m.Called(name, interval)
	return args.Error(0)
}

func (m *mockSweepScheduler) Start() {
	m.Called()
}

func (m *mockSweepScheduler) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func TestSweep_EvictsAtOrAfterExpiration(t *testing.T) {
	store, clock := newTestStore(Config[string]{TimeOut: time.Second})

	short, err := store.Add(LinkOptions[string]{})
	require.NoError(t, err)
	long, err := store.Add(LinkOptions[string]{TimeOut: Ptr(time.Minute)})
	require.NoError(t, err)

	clock.Advance(999 * time.Millisecond)
	evicted, err := store.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, evicted)

	clock.Advance(time.Millisecond)
	evicted, err = store.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, ok := store.Lookup(short)
	assert.False(t, ok)
	_, ok = store.Lookup(long)
	assert.True(t, ok)
}

func TestSweep_HonoursCancelledContext(t *testing.T) {
	store, clock := newTestStore(Config[string]{TimeOut: time.Second})
	_, err := store.Add(LinkOptions[string]{})
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evicted, err := store.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, evicted)
	assert.Equal(t, 1, store.Len())
}

func TestSweep_InterleavesWithDispatch(t *testing.T) {
	store, clock := newTestStore(Config[string]{TimeOut: time.Second, Redirect: "/x"})

	tokens := make([]string, 200)
	for i := range tokens {
		token, err := store.Add(LinkOptions[string]{})
		require.NoError(t, err)
		tokens[i] = token
	}
	clock.Advance(time.Second)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, token := range tokens {
			store.Dispatch(newFakeRequest(http.MethodGet, token), &fakeResponse{}, nil)
			store.Delete(token)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, _ = store.Sweep(context.Background())
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}

func TestStartSweeper_RegistersAndOwnsScheduler(t *testing.T) {
	store, clock := newTestStore(Config[string]{Interval: 250 * time.Millisecond, TimeOut: time.Second})

	sched := &mockSweepScheduler{}
	sched.On("RegisterSweepJob", SweepJobName, 250*time.Millisecond).Return(nil).Once()
	sched.On("Start").Return().Once()
	sched.On("Stop").Return(nil).Once()

	require.NoError(t, store.StartSweeper(sched))
	assert.ErrorIs(t, store.StartSweeper(sched), templink.ErrSweeperRunning)

	_, err := store.Add(LinkOptions[string]{})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	require.NotNil(t, sched.task)
	evicted, err := sched.task(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.StartSweeper(sched), templink.ErrStoreClosed)

	sched.AssertExpectations(t)
}

func TestStartSweeper_RegistrationError(t *testing.T) {
	store, _ := newTestStore(Config[string]{})

	boom := errors.New("bad interval")
	sched := &mockSweepScheduler{}
	sched.On("RegisterSweepJob", SweepJobName, DefaultInterval).Return(boom)

	assert.ErrorIs(t, store.StartSweeper(sched), boom)
	sched.AssertNotCalled(t, "Start")

	assert.NoError(t, store.Close(), "closing without a running sweeper is fine")
}

func TestConsumedTracker(t *testing.T) {
	tracker, err := NewConsumedTracker(2)
	require.NoError(t, err)

	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker.Record("a", at)
	tracker.Record("b", at)
	tracker.Record("c", at)

	_, ok := tracker.ConsumedAt("a")
	assert.False(t, ok, "oldest entry is evicted")
	got, ok := tracker.ConsumedAt("c")
	assert.True(t, ok)
	assert.Equal(t, at, got)
	assert.Equal(t, 2, tracker.Len())

	defaulted, err := NewConsumedTracker(0)
	require.NoError(t, err)
	assert.Equal(t, 0, defaulted.Len())
}
