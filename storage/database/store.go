package database

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"classhub/core"
)

// Store keeps each collection as one jsonb blob in the hub_store table,
// replaced wholesale on save.
type Store struct {
	db  *sqlx.DB
	log core.Logger
}

var _ core.Store = (*Store)(nil)

func NewStore(db *sql.DB, log core.Logger) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres"), log: log}
}

func (s *Store) Load(key string, dest interface{}) (bool, error) {
	var raw []byte
	err := s.db.Get(&raw, "SELECT value FROM hub_store WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// one corrupt row must not poison the rest; treat it as absent
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
	_, err = s.db.Exec(
		`INSERT INTO hub_store (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, raw,
	)
	return errors.Wrapf(err, "writing %s", key)
}
