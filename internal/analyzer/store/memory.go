package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

// MemoryStore is an in-memory implementation for testing and for runs
// without a history database.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	results map[string]map[string]*FileResult
	closed  bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*Run),
		results: make(map[string]map[string]*FileResult),
	}
}

// BeginRun records a new running run
func (s *MemoryStore) BeginRun(ctx context.Context, root, style string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		Style:     style,
		StartedAt: time.Now().UTC(),
		Status:    RunRunning,
	}
	stored := *run
	s.runs[run.ID] = &stored
	s.results[run.ID] = make(map[string]*FileResult)
	return run, nil
}

// RecordResult stores one file result
func (s *MemoryStore) RecordResult(ctx context.Context, result *FileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRun, ok := s.results[result.RunID]
	if !ok {
		return notFound(result.RunID)
	}
	if result.RecordedAt.IsZero() {
		result.RecordedAt = time.Now().UTC()
	}
	stored := *result
	byRun[result.Source] = &stored
	return nil
}

// FinishRun stores the final status and counters of run
func (s *MemoryStore) FinishRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; !ok {
		return notFound(run.ID)
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	stored := *run
	s.runs[run.ID] = &stored
	return nil
}

// GetRun returns one run by id
func (s *MemoryStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *run
	return &cp, nil
}

// ListRuns returns runs, newest first
func (s *MemoryStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []*Run
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		if filter.Root != "" && run.Root != filter.Root {
			continue
		}
		if !filter.Since.IsZero() && run.StartedAt.Before(filter.Since) {
			continue
		}
		cp := *run
		runs = append(runs, &cp)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if filter.Limit > 0 && len(runs) > filter.Limit {
		runs = runs[:filter.Limit]
	}
	return runs, nil
}

// Results returns the file results of a run in source order
func (s *MemoryStore) Results(ctx context.Context, runID string) ([]*FileResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*FileResult
	for _, r := range s.results[runID] {
		cp := *r
		results = append(results, &cp)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })
	return results, nil
}

// Prune removes finished runs older than the specified duration
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var deleted int64
	for id, run := range s.runs {
		if run.Status != RunRunning && run.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			delete(s.results, id)
			deleted++
		}
	}
	return deleted, nil
}

// Ping fails once the store is closed
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return mdwerror.New("history store is closed").WithCode(mdwerror.CodeDatabaseError)
	}
	return nil
}

// Close marks the store closed. The data stays readable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
