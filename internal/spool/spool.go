// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package spool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/models"
)

const prefixBatch = "batch:"

var (
	// ErrClosed is returned when the spool is closed.
	ErrClosed = errors.New("spool is closed")

	// ErrEmptyBatch is returned when Write is called with no positions.
	ErrEmptyBatch = errors.New("position batch cannot be empty")
)

// Batch is one spooled group of positions, written together when the
// store rejected them.
type Batch struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Positions []models.Position `json:"positions"`
}

// DrainFunc stores a drained batch. A nil return deletes the batch.
type DrainFunc func(ctx context.Context, positions []models.Position) error

// Spool is a durable FIFO of position batches backed by BadgerDB.
// Keys sort by creation time so Drain replays batches oldest first.
type Spool struct {
	db     *badger.DB
	maxAge time.Duration
	now    func() time.Time

	depth atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the spool at cfg.Path.
func Open(cfg config.SpoolConfig) (*Spool, error) {
	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Spool{
		db:     db,
		maxAge: cfg.MaxAge,
		now:    time.Now,
	}

	n, err := s.count()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.depth.Store(n)
	s.setDepth(n)

	if n > 0 {
		logging.Info().Int64("batches", n).Str("path", cfg.Path).Msg("Spool opened with pending batches")
	}
	return s, nil
}

// Write persists a batch and returns its ID.
func (s *Spool) Write(ctx context.Context, positions []models.Position) (string, error) {
	if len(positions) == 0 {
		return "", ErrEmptyBatch
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}

	now := s.now().UTC()
	b := Batch{
		ID:        uuid.New().String(),
		CreatedAt: now,
		Positions: positions,
	}
	data, err := json.Marshal(&b)
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}

	key := batchKey(now, b.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data))
	})
	if err != nil {
		metrics.SpoolOperations.WithLabelValues("error").Inc()
		return "", fmt.Errorf("write batch: %w", err)
	}

	metrics.SpoolOperations.WithLabelValues("write").Inc()
	s.setDepth(s.depth.Add(1))
	return b.ID, nil
}

// Drain replays pending batches oldest first through fn.
//
// A batch is deleted once fn accepts it. Draining stops at the first fn
// error so the failed batch and everything after it stay queued. Batches
// older than the configured max age are discarded without replay.
// Returns the number of positions handed to fn successfully.
func (s *Spool) Drain(ctx context.Context, fn DrainFunc) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	keys, batches, err := s.pending(ctx)
	if err != nil {
		return 0, err
	}

	drained := 0
	for i, b := range batches {
		if err := ctx.Err(); err != nil {
			return drained, err
		}

		if s.maxAge > 0 && s.now().Sub(b.CreatedAt) > s.maxAge {
			logging.Warn().
				Str("batch_id", b.ID).
				Int("positions", len(b.Positions)).
				Time("created_at", b.CreatedAt).
				Msg("Discarding expired spool batch")
			if err := s.delete(keys[i]); err != nil {
				return drained, err
			}
			metrics.SpoolOperations.WithLabelValues("expired").Inc()
			continue
		}

		if err := fn(ctx, b.Positions); err != nil {
			return drained, fmt.Errorf("replay batch %s: %w", b.ID, err)
		}
		if err := s.delete(keys[i]); err != nil {
			return drained, err
		}
		metrics.SpoolOperations.WithLabelValues("drain").Inc()
		drained += len(b.Positions)
	}
	return drained, nil
}

// Depth returns the number of pending batches.
func (s *Spool) Depth() int {
	return int(s.depth.Load())
}

// RunGC runs value log garbage collection every interval until ctx is done.
func (s *Spool) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.gc(); err != nil {
				logging.Warn().Err(err).Msg("Spool GC failed")
			}
		}
	}
}

// Close closes the underlying BadgerDB. Safe to call more than once.
func (s *Spool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

func (s *Spool) gc() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// pending reads every batch in key order. Undecodable batches are logged
// and deleted.
func (s *Spool) pending(ctx context.Context) ([][]byte, []Batch, error) {
	var (
		keys    [][]byte
		batches []Batch
		corrupt [][]byte
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixBatch)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			key := item.KeyCopy(nil)

			var b Batch
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &b)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(key)).Msg("Spool failed to unmarshal batch")
				corrupt = append(corrupt, key)
				continue
			}

			keys = append(keys, key)
			batches = append(batches, b)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("iterate spool: %w", err)
	}

	for _, key := range corrupt {
		if err := s.delete(key); err != nil {
			return nil, nil, err
		}
		metrics.SpoolOperations.WithLabelValues("error").Inc()
	}
	return keys, batches, nil
}

func (s *Spool) delete(key []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		metrics.SpoolOperations.WithLabelValues("error").Inc()
		return fmt.Errorf("delete batch: %w", err)
	}
	s.setDepth(s.depth.Add(-1))
	return nil
}

func (s *Spool) count() (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixBatch)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count spool: %w", err)
	}
	return n, nil
}

func (s *Spool) setDepth(n int64) {
	metrics.SpoolDepth.Set(float64(n))
}

// batchKey orders batches by creation time; the ID breaks ties.
func batchKey(t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixBatch, t.UnixNano(), id))
}
