package eco

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps the ledger in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add accumulates r into the record of its run and day.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.RunID] == nil {
		s.data[r.RunID] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.RunID][d]
	if rec == nil {
		rec = &Record{RunID: r.RunID, Date: d}
		s.data[r.RunID][d] = rec
	}
	rec.SolarKWh += r.SolarKWh
	rec.ImportedKWh += r.ImportedKWh
	rec.ExportedKWh += r.ExportedKWh
	rec.ConsumedKWh += r.ConsumedKWh
	return nil
}

// Query returns the records of runID between start and end inclusive, oldest
// first.
func (s *MemoryStore) Query(runID string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	for d, r := range s.data[runID] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
