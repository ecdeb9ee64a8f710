// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package storage

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// JobStatus is the lifecycle state of an asynchronous job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the job will not change again.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobRecord tracks one queued forecast operation. Result holds the same
// JSON body the synchronous endpoint would have returned.
type JobRecord struct {
	ID            string          `json:"id"`
	Operation     string          `json:"operation"`
	Dataset       string          `json:"dataset"`
	Status        JobStatus       `json:"status"`
	Error         string          `json:"error,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
}

// NewJobID returns a time-ordered job id.
func NewJobID() (string, error) {
	return newID()
}

// SaveJob creates or replaces a job record.
func (s *Store) SaveJob(ctx context.Context, job *JobRecord) (err error) {
	start := time.Now()
	defer func() { observe("save_job", start, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	return s.put(jobPrefix+job.ID, job)
}

// GetJob returns the job with id or ErrNotFound.
func (s *Store) GetJob(ctx context.Context, id string) (job *JobRecord, err error) {
	start := time.Now()
	defer func() { observe("get_job", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	job = &JobRecord{}
	if err = s.get(jobPrefix+id, job); err != nil {
		return nil, err
	}
	return job, nil
}
