// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/forecast/correlation"
	"github.com/tomtom215/fishcast/internal/forecast/optimize"
)

// PredictionRecord is one model's stored prediction.
type PredictionRecord struct {
	ID           string    `json:"id"`
	BatchID      string    `json:"batch_id"`
	Dataset      string    `json:"dataset"`
	ModelType    string    `json:"model_type"`
	TrainedWith  string    `json:"trained_with"`
	Fallback     string    `json:"fallback,omitempty"`
	Predictions  []float64 `json:"predictions"`
	ActualValues []float64 `json:"actual_values"`
	MSE          float64   `json:"mse"`
	MAE          float64   `json:"mae"`
	CreatedAt    time.Time `json:"created_at"`
}

// CorrelationRecord is a stored correlation matrix.
type CorrelationRecord struct {
	ID        string             `json:"id"`
	Dataset   string             `json:"dataset"`
	Result    correlation.Result `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
}

// OptimizationRecord is a stored optimizer run.
type OptimizationRecord struct {
	ID        string          `json:"id"`
	Dataset   string          `json:"dataset"`
	Result    optimize.Result `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// SavePredictions stores one record per model of out under a new batch id,
// in the request order of out.Models.
func (s *Store) SavePredictions(ctx context.Context, dataset string, out *forecast.Predictions) (batchID string, records []PredictionRecord, err error) {
	start := time.Now()
	defer func() { observe("save_predictions", start, err) }()

	if err = ctx.Err(); err != nil {
		return "", nil, err
	}
	if batchID, err = newID(); err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	records = make([]PredictionRecord, 0, len(out.Models))
	for _, name := range out.Models {
		res, ok := out.Results[name]
		if !ok {
			continue
		}
		id, idErr := newID()
		if idErr != nil {
			return "", nil, idErr
		}
		records = append(records, PredictionRecord{
			ID:           id,
			BatchID:      batchID,
			Dataset:      dataset,
			ModelType:    name,
			TrainedWith:  res.TrainedWith.String(),
			Fallback:     res.Fallback,
			Predictions:  res.Predictions,
			ActualValues: res.ActualValues,
			MSE:          res.MSE,
			MAE:          res.MAE,
			CreatedAt:    now,
		})
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for i := range records {
			data, mErr := json.Marshal(&records[i])
			if mErr != nil {
				return fmt.Errorf("marshal prediction: %w", mErr)
			}
			if sErr := txn.Set([]byte(predictionPrefix+records[i].ID), data); sErr != nil {
				return fmt.Errorf("set prediction: %w", sErr)
			}
			if sErr := txn.Set(batchKey(batchID, records[i].ID), []byte(records[i].ID)); sErr != nil {
				return fmt.Errorf("set batch index: %w", sErr)
			}
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug().
		Str("batch_id", batchID).
		Str("dataset", dataset).
		Int("records", len(records)).
		Msg("Predictions stored")
	return batchID, records, nil
}

func batchKey(batchID, id string) []byte {
	return []byte(batchPrefix + batchID + ":" + id)
}

// GetPrediction returns the record with id or ErrNotFound.
func (s *Store) GetPrediction(ctx context.Context, id string) (rec *PredictionRecord, err error) {
	start := time.Now()
	defer func() { observe("get_prediction", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	rec = &PredictionRecord{}
	if err = s.get(predictionPrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPredictions returns a page of records, newest first, and the total
// number stored.
func (s *Store) ListPredictions(ctx context.Context, offset, limit int) (records []PredictionRecord, total int, err error) {
	start := time.Now()
	defer func() { observe("list_predictions", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}
	records = []PredictionRecord{}
	total, err = s.scanReverse(predictionPrefix, offset, limit, func(val []byte) error {
		var rec PredictionRecord
		if uErr := json.Unmarshal(val, &rec); uErr != nil {
			return fmt.Errorf("unmarshal prediction: %w", uErr)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list predictions: %w", err)
	}
	return records, total, nil
}

// BatchPredictions returns the records of one batch in creation order, or
// ErrNotFound when the batch has none.
func (s *Store) BatchPredictions(ctx context.Context, batchID string) (records []PredictionRecord, err error) {
	start := time.Now()
	defer func() { observe("batch_predictions", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	err = s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(batchPrefix + batchID + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var id string
			if vErr := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); vErr != nil {
				return vErr
			}
			var rec PredictionRecord
			if gErr := getTxn(txn, predictionPrefix+id, &rec); gErr != nil {
				if errors.Is(gErr, ErrNotFound) {
					continue
				}
				return gErr
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch predictions: %w", err)
	}
	if len(records) == 0 {
		err = ErrNotFound
		return nil, err
	}
	return records, nil
}

// DeletePrediction removes the record and its batch index entry.
func (s *Store) DeletePrediction(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe("delete_prediction", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		var rec PredictionRecord
		if gErr := getTxn(txn, predictionPrefix+id, &rec); gErr != nil {
			return gErr
		}
		if dErr := txn.Delete([]byte(predictionPrefix + id)); dErr != nil {
			return fmt.Errorf("delete prediction: %w", dErr)
		}
		if dErr := txn.Delete(batchKey(rec.BatchID, id)); dErr != nil {
			return fmt.Errorf("delete batch index: %w", dErr)
		}
		return nil
	})
}

// SaveCorrelation stores res and returns its record.
func (s *Store) SaveCorrelation(ctx context.Context, dataset string, res correlation.Result) (rec *CorrelationRecord, err error) {
	start := time.Now()
	defer func() { observe("save_correlation", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	rec = &CorrelationRecord{ID: id, Dataset: dataset, Result: res, CreatedAt: time.Now().UTC()}
	if err = s.put(correlationPrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetCorrelation returns the record with id or ErrNotFound.
func (s *Store) GetCorrelation(ctx context.Context, id string) (rec *CorrelationRecord, err error) {
	start := time.Now()
	defer func() { observe("get_correlation", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	rec = &CorrelationRecord{}
	if err = s.get(correlationPrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveOptimization stores res and returns its record.
func (s *Store) SaveOptimization(ctx context.Context, dataset string, res optimize.Result) (rec *OptimizationRecord, err error) {
	start := time.Now()
	defer func() { observe("save_optimization", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	rec = &OptimizationRecord{ID: id, Dataset: dataset, Result: res, CreatedAt: time.Now().UTC()}
	if err = s.put(optimizePrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetOptimization returns the record with id or ErrNotFound.
func (s *Store) GetOptimization(ctx context.Context, id string) (rec *OptimizationRecord, err error) {
	start := time.Now()
	defer func() { observe("get_optimization", start, ignoreNotFound(err)) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	rec = &OptimizationRecord{}
	if err = s.get(optimizePrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ignoreNotFound keeps lookups of absent ids out of the error metric.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
