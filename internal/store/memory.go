package store

import "github.com/hjaltalin/caselink/internal/model"

// MemoryStore is an in-memory RecordStore for tests
type MemoryStore struct {
	Records []model.Record
	Saves   int
}

// NewMemoryStore creates a store pre-seeded with the given records
func NewMemoryStore(records ...model.Record) *MemoryStore {
	return &MemoryStore{Records: records}
}

// Load returns a copy of the stored records
func (s *MemoryStore) Load() ([]model.Record, error) {
	out := make([]model.Record, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// Save replaces the stored records
func (s *MemoryStore) Save(records []model.Record) error {
	s.Records = make([]model.Record, len(records))
	copy(s.Records, records)
	s.Saves++
	return nil
}
