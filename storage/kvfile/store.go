package kvfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"classhub/core"
)

// Store keeps one JSON file per key under a data directory. It is the
// default backend.
type Store struct {
	dir string
	log core.Logger
}

var _ core.Store = (*Store)(nil)

func New(dir string, log core.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) Load(key string, dest interface{}) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// one corrupt file must not poison the rest; treat it as absent
		s.log.Error("corrupt collection, starting it fresh", key, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) Save(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(os.WriteFile(s.path(key), raw, 0o644), "writing %s", key)
}
