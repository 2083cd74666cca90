package templink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/utils"
)

// SnapshotBackend stores one encoded snapshot under a fixed name.
// Load returns templink.ErrSnapshotNotFound when nothing was saved yet.
type SnapshotBackend interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// Persister saves and restores a store's links through a SnapshotBackend.
type Persister[R any] struct {
	store      *Store[R]
	backend    SnapshotBackend
	callback   templink.Callback
	logger     logger.Interface
	newBackOff func() backoff.BackOff
}

// NewPersister creates a persister. callback is applied to every restored
// link, as with Import.
func NewPersister[R any](store *Store[R], backend SnapshotBackend, callback templink.Callback, log logger.Interface) *Persister[R] {
	return &Persister[R]{
		store:      store,
		backend:    backend,
		callback:   callback,
		logger:     log,
		newBackOff: defaultSaveBackOff,
	}
}

func defaultSaveBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.RandomizationFactor = 0.1
	return b
}

// Save exports the store and writes it to the backend, retrying transient
// backend failures until ctx is done or the retry budget runs out.
func (p *Persister[R]) Save(ctx context.Context) error {
	snapshot := p.store.Export()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode link snapshot: %w", err)
	}

	attempt := 0
	err = backoff.RetryNotify(func() error {
		attempt++
		return p.backend.Save(ctx, data)
	}, backoff.WithContext(p.newBackOff(), ctx), func(err error, wait time.Duration) {
		p.logger.Warnw("link snapshot save failed, retrying",
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to save link snapshot: %w", err)
	}

	p.logger.Debugw("link snapshot saved", "links", len(snapshot), "bytes", len(data))
	return nil
}

// Restore loads the saved snapshot and imports it. A missing snapshot is not
// an error and yields an empty result.
func (p *Persister[R]) Restore(ctx context.Context) (ImportResult, error) {
	data, err := p.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, templink.ErrSnapshotNotFound) {
			p.logger.Infow("no link snapshot to restore")
			return ImportResult{}, nil
		}
		return ImportResult{}, fmt.Errorf("failed to load link snapshot: %w", err)
	}

	snapshot, err := DecodeSnapshot[R](data)
	if err != nil {
		return ImportResult{}, err
	}

	result := p.store.Import(snapshot, p.callback)
	for token, failure := range result.Failed {
		p.logger.Warnw("link snapshot entry rejected", "token", utils.MaskToken(token), "error", failure)
	}
	return result, nil
}

// DecodeSnapshot parses a JSON encoded snapshot.
func DecodeSnapshot[R any](data []byte) (Snapshot[R], error) {
	var snapshot Snapshot[R]
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode link snapshot: %w", err)
	}
	return snapshot, nil
}
