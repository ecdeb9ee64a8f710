// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/cache"
	"github.com/tomtom215/fishcast/internal/metrics"
)

// utf8BOM is stripped from the start of input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are tried when sniffing the header line.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Reader turns raw bytes into a header and string rows.
type Reader interface {
	// Name identifies the strategy in logs.
	Name() string

	// Read parses data using delim as the field separator.
	Read(data []byte, delim rune) (header []string, rows [][]string, err error)
}

// StructuredReader parses RFC 4180 input with encoding/csv. Rows may have
// any field count; New pads or truncates them to the header.
type StructuredReader struct{}

// Name implements Reader.
func (StructuredReader) Name() string { return "structured" }

// Read implements Reader.
func (StructuredReader) Read(data []byte, delim rune) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// LineReader splits each line on the delimiter and strips surrounding
// quotes. It never returns an error; unreadable input yields no rows.
type LineReader struct{}

// Name implements Reader.
func (LineReader) Name() string { return "permissive" }

// Read implements Reader.
func (LineReader) Read(data []byte, delim rune) ([]string, [][]string, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header []string
	var rows [][]string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, string(delim))
		for i, f := range fields {
			fields[i] = strings.Trim(strings.TrimSpace(f), `"'`)
		}
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, fields)
	}
	return header, rows, nil
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// FillValue replaces missing or invalid numeric cells.
	// Default: 0.
	FillValue float64

	// Primary is the first reader tried. Default: StructuredReader.
	Primary Reader

	// Fallback is used when Primary fails. Default: LineReader.
	Fallback Reader

	// CacheSize bounds the number of parsed files kept in memory.
	// Zero disables caching.
	CacheSize int

	// CacheTTL is how long a parsed file is reused. Default: 5m.
	CacheTTL time.Duration
}

// Loader reads delimited files into datasets.
type Loader struct {
	opts   LoaderOptions
	cache  *cache.LRU[*Dataset]
	logger zerolog.Logger
}

// NewLoader creates a loader, filling unset strategies with the defaults.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(opts LoaderOptions, logger zerolog.Logger) *Loader {
	if opts.Primary == nil {
		opts.Primary = StructuredReader{}
	}
	if opts.Fallback == nil {
		opts.Fallback = LineReader{}
	}
	l := &Loader{
		opts:   opts,
		logger: logger.With().Str("component", "dataset_loader").Logger(),
	}
	if opts.CacheSize > 0 {
		l.cache = cache.NewLRU[*Dataset](opts.CacheSize, opts.CacheTTL)
	}
	return l
}

// Load reads the file at path. A missing or unreadable file returns an
// *IOError; malformed content never fails. With caching enabled, a file
// whose size and modification time are unchanged is not parsed again.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if l.cache != nil {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		key = path + "|" + strconv.FormatInt(info.Size(), 10) + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
		if ds, ok := l.cache.Get(key); ok {
			metrics.RecordDatasetCache(true)
			return ds, nil
		}
		metrics.RecordDatasetCache(false)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	ds := l.Parse(data)
	if l.cache != nil {
		l.cache.Add(key, ds)
	}
	l.logger.Debug().
		Str("path", path).
		Int("rows", ds.Rows()).
		Int("columns", len(ds.columns)).
		Msg("dataset loaded")
	return ds, nil
}

// Parse builds a dataset from in-memory bytes using the primary reader,
// falling back to the permissive one on a parse error.
func (l *Loader) Parse(data []byte) *Dataset {
	data = bytes.TrimPrefix(data, utf8BOM)
	delim := sniffDelimiter(data)

	reader := l.opts.Primary.Name()
	header, rows, err := l.opts.Primary.Read(data, delim)
	if err != nil {
		l.logger.Warn().
			Err(err).
			Str("reader", reader).
			Str("fallback", l.opts.Fallback.Name()).
			Msg("structured parse failed, using fallback reader")

		reader = l.opts.Fallback.Name()
		header, rows, err = l.opts.Fallback.Read(data, delim)
		if err != nil {
			l.logger.Error().Err(err).Msg("fallback reader failed, returning empty dataset")
			reader, header, rows = "empty", nil, nil
		}
	}
	metrics.RecordDatasetLoad(reader, err)
	ds := New(header, rows, l.opts.FillValue)
	if coerced := ds.Coerced(); len(coerced) > 0 {
		event := l.logger.Warn().Str("reader", reader).Float64("fill_value", l.opts.FillValue)
		for name, n := range coerced {
			event = event.Int("coerced."+name, n)
		}
		event.Msg("unparseable numeric cells replaced with fill value")
	}
	return ds
}

// sniffDelimiter picks the candidate delimiter that occurs most often in
// the first line, defaulting to a comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
