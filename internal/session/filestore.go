package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
)

// FileRecordStore keeps one JSON file per slot under a directory. This is
// the durable client-side mirror for portals hosted on a device.
type FileRecordStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileRecordStore(dir string) (*FileRecordStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileRecordStore{dir: dir}, nil
}

func (s *FileRecordStore) Read(key string) (*entity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(key)
}

func (s *FileRecordStore) Write(key string, record *entity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(key)
	if err == nil && existing.Version >= record.Version {
		return ErrStaleWrite
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o600)
}

func (s *FileRecordStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileRecordStore) read(key string) (*entity.Record, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	var record entity.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", key, err)
	}
	return &record, nil
}

func (s *FileRecordStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
