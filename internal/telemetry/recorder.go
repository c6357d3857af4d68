// Package telemetry collects in-process diagnostics for detection runs.
//
// A Recorder keeps a bounded ring of per-run records guarded by a mutex.
// It is handed to the detection engine explicitly; nothing in this package
// is a process-wide singleton, so tests and concurrent engines each get
// their own isolated history.
package telemetry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the ring size used when NewRecorder is given a
// non-positive capacity.
const DefaultCapacity = 1000

// Record captures one detection run.
type Record struct {
	// ID is a unique identifier assigned when the record is added.
	ID string `json:"id"`

	// Timestamp is when the record was added.
	Timestamp time.Time `json:"timestamp"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration"`

	// DetectorDurations holds per-detector wall times keyed by detector
	// name.
	DetectorDurations map[string]time.Duration `json:"detector_durations,omitempty"`

	// ImageWidth and ImageHeight are the dimensions of the analyzed image
	// before normalization.
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`

	// RegionCount is the number of regions returned.
	RegionCount int `json:"region_count"`

	// Success reports whether the run produced a usable result.
	Success bool `json:"success"`

	// Error holds the failure message for unsuccessful runs.
	Error string `json:"error,omitempty"`
}

// Summary aggregates the recorded history.
type Summary struct {
	Count          int           `json:"count"`
	Successes      int           `json:"successes"`
	SuccessRate    float64       `json:"success_rate"`
	AvgDuration    time.Duration `json:"avg_duration"`
	P50Duration    time.Duration `json:"p50_duration"`
	P95Duration    time.Duration `json:"p95_duration"`
	P99Duration    time.Duration `json:"p99_duration"`
	AvgRegionCount float64       `json:"avg_region_count"`
}

// Recorder is a fixed-capacity ring of Records, safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	next    int
	full    bool
}

// NewRecorder creates a recorder holding up to capacity records; once full,
// new records evict the oldest. Non-positive capacities fall back to
// DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{records: make([]Record, 0, capacity)}
}

// Add stores a record, assigning its ID and stamping the time if unset.
func (r *Recorder) Add(rec Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) < cap(r.records) {
		r.records = append(r.records, rec)
		return
	}
	r.records[r.next] = rec
	r.next = (r.next + 1) % cap(r.records)
	r.full = true
}

// Len returns the number of stored records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Snapshot returns the stored records from oldest to newest.
func (r *Recorder) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, 0, len(r.records))
	if r.full {
		out = append(out, r.records[r.next:]...)
		out = append(out, r.records[:r.next]...)
	} else {
		out = append(out, r.records...)
	}
	return out
}

// Clear drops the recorded history.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = r.records[:0]
	r.next = 0
	r.full = false
}

// Summarize computes aggregate statistics over the stored records.
func (r *Recorder) Summarize() Summary {
	records := r.Snapshot()

	var s Summary
	s.Count = len(records)
	if s.Count == 0 {
		return s
	}

	durations := make([]time.Duration, 0, len(records))
	var total time.Duration
	var regions int
	for _, rec := range records {
		durations = append(durations, rec.Duration)
		total += rec.Duration
		regions += rec.RegionCount
		if rec.Success {
			s.Successes++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	s.SuccessRate = float64(s.Successes) / float64(s.Count)
	s.AvgDuration = total / time.Duration(s.Count)
	s.P50Duration = percentile(durations, 50)
	s.P95Duration = percentile(durations, 95)
	s.P99Duration = percentile(durations, 99)
	s.AvgRegionCount = float64(regions) / float64(s.Count)
	return s
}

// percentile returns the nearest-rank percentile of sorted durations.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
