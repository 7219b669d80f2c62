package importer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks the lifecycle of an asynchronous import run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is the observable state of one asynchronous import. Runs are
// transient per-upload, so they live in memory only.
type Run struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "fresh" | "update"
	Status    RunStatus `json:"status"`
	Percent   int       `json:"percent"`
	Message   string    `json:"message"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// RunRegistry is a concurrency-safe in-memory registry of import runs
type RunRegistry struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewRunRegistry creates an empty registry
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[string]*Run)}
}

// Start registers a new running import and returns it
func (r *RunRegistry) Start(kind string) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    RunRunning,
		StartedAt: time.Now(),
	}
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
	return run
}

// Progress updates the run's progress. Percentages only move forward.
func (r *RunRegistry) Progress(runID string, percent int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return
	}
	if percent > run.Percent {
		run.Percent = percent
	}
	run.Message = message
}

// Complete marks a run finished with its result
func (r *RunRegistry) Complete(runID string, result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[runID]; ok {
		now := time.Now()
		run.Status = RunCompleted
		run.Percent = 100
		run.Result = result
		run.EndedAt = &now
	}
}

// Fail marks a run failed
func (r *RunRegistry) Fail(runID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[runID]; ok {
		now := time.Now()
		run.Status = RunFailed
		run.Error = err.Error()
		run.EndedAt = &now
	}
}

// Sweep evicts finished runs that ended more than maxAge ago and
// returns how many were removed. Running imports are never evicted.
func (r *RunRegistry) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, run := range r.runs {
		if run.Status == RunRunning || run.EndedAt == nil {
			continue
		}
		if run.EndedAt.Before(cutoff) {
			delete(r.runs, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps the registry every interval until ctx is done
func (r *RunRegistry) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(maxAge)
			}
		}
	}()
}

// Get returns a snapshot of the run, if registered
func (r *RunRegistry) Get(runID string) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[runID]
	if !ok {
		return Run{}, false
	}
	return *run, true
}
