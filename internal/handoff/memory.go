package handoff

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps records in process memory.
type Memory struct {
	mu   sync.Mutex
	runs map[string]map[string]Record
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]map[string]Record)}
}

// ForRun implements Backend.
func (m *Memory) ForRun(runID string) Store {
	return &memoryStore{backend: m, runID: runID}
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }

type memoryStore struct {
	backend *Memory
	runID   string
}

func (s *memoryStore) RunID() string { return s.runID }

func (s *memoryStore) Publish(ctx context.Context, shotID string, record Record) error {
	if err := validateKey(s.runID, shotID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.runs[s.runID]
	if records == nil {
		records = make(map[string]Record)
		m.runs[s.runID] = records
	}
	if _, exists := records[shotID]; exists {
		return duplicate(s.runID, shotID)
	}
	records[shotID] = cloneRecord(record)
	return nil
}

func (s *memoryStore) Fetch(ctx context.Context, shotID string) (Record, error) {
	if err := validateKey(s.runID, shotID); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.runs[s.runID][shotID]
	if !ok {
		return Record{}, notFound(s.runID, shotID)
	}
	return cloneRecord(record), nil
}

func (s *memoryStore) Clear(context.Context) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, s.runID)
	return nil
}

func cloneRecord(r Record) Record {
	out := Record{Main: r.Main, Overlapping: slices.Clone(r.Overlapping)}
	if out.Overlapping == nil {
		out.Overlapping = []Member{}
	}
	return out
}
