// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package storage persists forecast results in BadgerDB.
//
// Values are go-json encoded. Keys:
//
//	pred:<id>              PredictionRecord
//	batch:<batch>:<id>     index of a prediction by batch
//	corr:<id>              CorrelationRecord
//	opt:<id>               OptimizationRecord
//	job:<id>               JobRecord
//
// Ids are UUIDv7, so lexical key order is creation order and listing newest
// first is a reverse prefix scan.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/metrics"
)

const (
	predictionPrefix  = "pred:"
	batchPrefix       = "batch:"
	correlationPrefix = "corr:"
	optimizePrefix    = "opt:"
	jobPrefix         = "job:"
)

// ErrNotFound is returned when a record id has no stored value.
var ErrNotFound = errors.New("record not found")

// Config selects where the store lives.
type Config struct {
	Path     string
	InMemory bool
}

// Store is a BadgerDB-backed result store. It is safe for concurrent use.
type Store struct {
	db       *badger.DB
	inMemory bool
	logger   zerolog.Logger
}

// Open opens (or creates) the store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("storage path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:       db,
		inMemory: cfg.InMemory,
		logger:   logger.With().Str("component", "storage").Logger(),
	}
	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Result store opened")
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC rewrites value log files until badger reports nothing left to
// reclaim. It is a no-op for in-memory stores.
func (s *Store) RunGC(ratio float64) (err error) {
	if s.inMemory {
		return nil
	}
	start := time.Now()
	defer func() { observe("value_log_gc", start, err) }()

	for {
		err = s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log GC: %w", err)
		}
	}
}

// Ping reports whether the database accepts reads.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return fmt.Errorf("store closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// newID returns a time-ordered id.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// observe records the duration and outcome of a store operation.
func observe(op string, start time.Time, err error) {
	metrics.RecordStorageOperation(op, time.Since(start), err)
}

func (s *Store) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(key string, v interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		return getTxn(txn, key, v)
	})
}

func getTxn(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// scanReverse visits values under prefix newest first, skipping offset
// entries and stopping after limit (0 = no limit). It returns the total
// number of keys under prefix.
func (s *Store) scanReverse(prefix string, offset, limit int, visit func(val []byte) error) (int, error) {
	total := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(prefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
			total++
			if total <= offset || (limit > 0 && total > offset+limit) {
				continue
			}
			if err := it.Item().Value(visit); err != nil {
				return err
			}
		}
		return nil
	})
	return total, err
}
