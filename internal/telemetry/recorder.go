// Package telemetry writes per-flock statistics to CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// Recorder appends one CSV row per flock every `every` ticks.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	out    io.Writer
	closer io.Closer
	every  int64

	headerWritten bool
	rows          int
}

// NewRecorder writes to w. every < 1 records every tick.
func NewRecorder(w io.Writer, every int) *Recorder {
	return &Recorder{out: w, every: int64(max(every, 1))}
}

// Create opens path for writing, creating parent directories.
// Returns nil if path is empty (recording disabled).
func Create(path string, every int) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	r := NewRecorder(f, every)
	r.closer = f
	return r, nil
}

// Record writes the snapshot's flock statistics when its tick is due.
func (r *Recorder) Record(snap *simulation.WorldSnapshot) error {
	if r == nil || snap == nil || len(snap.Stats) == 0 || snap.Tick%r.every != 0 {
		return nil
	}

	records := snap.Stats
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows += len(records)
	return nil
}

// Rows returns the number of data rows written so far.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Close closes the underlying file, if Create opened one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
