package session

import (
	"sync"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
)

// MemoryRecordStore mirrors FileRecordStore semantics in process memory.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]entity.Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]entity.Record)}
}

func (s *MemoryRecordStore) Read(key string) (*entity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, ErrNoRecord
	}
	clone := record
	return &clone, nil
}

func (s *MemoryRecordStore) Write(key string, record *entity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok && existing.Version >= record.Version {
		return ErrStaleWrite
	}
	s.records[key] = *record
	return nil
}

func (s *MemoryRecordStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
