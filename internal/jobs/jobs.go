// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package jobs runs forecast operations asynchronously.
//
// Submit stores a queued JobRecord and publishes it on an in-process
// Watermill GoChannel topic. A router handler picks it up, runs it through
// the Executor and writes the terminal status and result back to the store.
// Clients poll the job by id.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/logging"
	"github.com/tomtom215/fishcast/internal/metrics"
	"github.com/tomtom215/fishcast/internal/storage"
)

// Topic carries queued jobs.
const Topic = "fishcast.jobs"

const handlerName = "forecast_jobs"

// Operations accepted by Submit.
const (
	OpPredict   = "predict"
	OpCorrelate = "correlate"
	OpOptimize  = "optimize"
)

var (
	// ErrNotRunning is returned by Submit before the router subscribed or
	// after it closed.
	ErrNotRunning = errors.New("job queue is not running")

	// ErrUnknownOperation is returned for operations other than predict,
	// correlate and optimize.
	ErrUnknownOperation = errors.New("unknown job operation")
)

// Request is a queued operation and its parameters.
type Request struct {
	Operation      string   `json:"operation"`
	Dataset        string   `json:"dataset"`
	Models         []string `json:"models,omitempty"`
	PopulationSize int      `json:"population_size,omitempty"`
	Generations    int      `json:"generations,omitempty"`
}

// Executor runs one request and returns its JSON-serializable result.
type Executor interface {
	Execute(ctx context.Context, req Request) (interface{}, error)
}

// JobStore is the persistence the manager needs.
type JobStore interface {
	SaveJob(ctx context.Context, job *storage.JobRecord) error
	GetJob(ctx context.Context, id string) (*storage.JobRecord, error)
}

// Config configures the manager.
type Config struct {
	// Buffer is the GoChannel output buffer per subscriber.
	Buffer int64
	// CloseTimeout bounds how long Close waits for in-flight jobs.
	CloseTimeout time.Duration
}

// Manager owns the pub/sub, the router and the job handler.
type Manager struct {
	pubSub   *gochannel.GoChannel
	router   *message.Router
	store    JobStore
	executor Executor
	logger   zerolog.Logger
}

// NewManager wires the GoChannel pub/sub and router. Call Run to start
// consuming.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewManager(cfg Config, store JobStore, executor Executor, logger zerolog.Logger) (*Manager, error) {
	if store == nil || executor == nil {
		return nil, fmt.Errorf("job manager needs a store and an executor")
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("watermill"))
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: cfg.Buffer}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, middleware.CorrelationID)

	m := &Manager{
		pubSub:   pubSub,
		router:   router,
		store:    store,
		executor: executor,
		logger:   logger.With().Str("component", "jobs").Logger(),
	}
	router.AddConsumerHandler(handlerName, Topic, pubSub, m.handle)
	return m, nil
}

// Run consumes jobs until ctx is cancelled or Close is called.
func (m *Manager) Run(ctx context.Context) error {
	return m.router.Run(ctx)
}

// Running is closed once the handler is subscribed.
func (m *Manager) Running() <-chan struct{} {
	return m.router.Running()
}

// IsRunning reports whether Submit will be accepted.
func (m *Manager) IsRunning() bool {
	return m.router.IsRunning()
}

// Close stops the router and the pub/sub.
func (m *Manager) Close() error {
	rErr := m.router.Close()
	pErr := m.pubSub.Close()
	return errors.Join(rErr, pErr)
}

// Submit records a queued job and publishes it. The returned record is the
// queued state.
func (m *Manager) Submit(ctx context.Context, req Request) (*storage.JobRecord, error) {
	if !validOperation(req.Operation) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}
	if !m.router.IsRunning() {
		return nil, ErrNotRunning
	}

	id, err := storage.NewJobID()
	if err != nil {
		return nil, err
	}
	corrID := logging.CorrelationIDFromContext(ctx)
	if corrID == "" {
		corrID = logging.GenerateCorrelationID()
	}
	job := &storage.JobRecord{
		ID:            id,
		Operation:     req.Operation,
		Dataset:       req.Dataset,
		Status:        storage.JobQueued,
		CorrelationID: corrID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := m.store.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	payload, err := json.Marshal(envelope{JobID: id, Request: req})
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	msg := message.NewMessage(id, payload)
	middleware.SetCorrelationID(corrID, msg)
	if err := m.pubSub.Publish(Topic, msg); err != nil {
		return nil, fmt.Errorf("publish job: %w", err)
	}

	metrics.RecordJob(req.Operation, string(storage.JobQueued), 0)
	logging.Ctx(ctx).Info().
		Str("job_id", id).
		Str("operation", req.Operation).
		Str("dataset", req.Dataset).
		Msg("Job queued")
	return job, nil
}

// Get returns the current state of a job.
func (m *Manager) Get(ctx context.Context, id string) (*storage.JobRecord, error) {
	return m.store.GetJob(ctx, id)
}

type envelope struct {
	JobID   string  `json:"job_id"`
	Request Request `json:"request"`
}

// handle always acks: a failed job is recorded on the job, not redelivered.
func (m *Manager) handle(msg *message.Message) error {
	var env envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		m.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed job message")
		return nil
	}

	ctx := logging.ContextWithLogger(msg.Context(), m.logger)
	ctx = logging.ContextWithCorrelationID(ctx, middleware.MessageCorrelationID(msg))
	log := logging.Ctx(ctx).With().Str("job_id", env.JobID).Str("operation", env.Request.Operation).Logger()

	job, err := m.store.GetJob(ctx, env.JobID)
	if err != nil {
		log.Error().Err(err).Msg("Job record missing")
		return nil
	}
	started := time.Now().UTC()
	job.Status = storage.JobRunning
	job.StartedAt = &started
	if err := m.store.SaveJob(ctx, job); err != nil {
		log.Error().Err(err).Msg("Failed to mark job running")
	}

	result, runErr := m.run(ctx, env.Request)
	finished := time.Now().UTC()
	job.FinishedAt = &finished
	if runErr == nil {
		job.Result, runErr = json.Marshal(result)
	}
	if runErr != nil {
		job.Status = storage.JobFailed
		job.Error = runErr.Error()
		job.Result = nil
		log.Warn().Err(runErr).Msg("Job failed")
	} else {
		job.Status = storage.JobCompleted
		log.Info().Dur("duration", finished.Sub(started)).Msg("Job completed")
	}
	metrics.RecordJob(env.Request.Operation, string(job.Status), finished.Sub(started))

	if err := m.store.SaveJob(context.WithoutCancel(ctx), job); err != nil {
		log.Error().Err(err).Msg("Failed to store job result")
	}
	return nil
}

// run converts executor panics into job failures.
func (m *Manager) run(ctx context.Context, req Request) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return m.executor.Execute(ctx, req)
}

func validOperation(op string) bool {
	switch op {
	case OpPredict, OpCorrelate, OpOptimize:
		return true
	default:
		return false
	}
}
