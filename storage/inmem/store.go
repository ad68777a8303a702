package inmem

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"classhub/core"
)

// Store is a map-backed core.Store for tests.
type Store struct {
	mutex sync.RWMutex
	t     map[string][]byte
}

var _ core.Store = (*Store)(nil)

func Open() *Store {
	return &Store{t: make(map[string][]byte)}
}

func (s *Store) Load(key string, dest interface{}) (bool, error) {
	s.mutex.RLock()
	raw, ok := s.t[key]
	s.mutex.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// mirror the durable backends: corrupt means absent
		return false, nil
	}
	return true, nil
}

func (s *Store) Save(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	s.mutex.Lock()
	s.t[key] = raw
	s.mutex.Unlock()
	return nil
}

// SetRaw plants raw bytes at a key, corrupt ones included. Test helper.
func (s *Store) SetRaw(key string, raw []byte) {
	s.mutex.Lock()
	s.t[key] = raw
	s.mutex.Unlock()
}

// Raw returns the stored bytes at a key. Test helper.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	raw, ok := s.t[key]
	return raw, ok
}
