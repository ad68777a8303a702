package core

// Store persists one JSON document per key. Writes are full replacements;
// there is no partial update.
type Store interface {
	// Load unmarshals the document at key into dest and reports whether the
	// key was present. A corrupt document is logged by the implementation
	// and treated as absent so one bad key never poisons the others.
	Load(key string, dest interface{}) (bool, error)

	// Save serializes value and replaces the document at key.
	Save(key string, value interface{}) error
}
