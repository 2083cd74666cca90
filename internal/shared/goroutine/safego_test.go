package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/templink/internal/shared/logger"
)

func TestRun(t *testing.T) {
	log := logger.NewNopLogger()

	assert.True(t, Run(log, "ok", func() {}))
	assert.False(t, Run(log, "panics", func() { panic("boom") }))
}

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})

	SafeGo(logger.NewNopLogger(), "panics", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
