package domain

import "time"

// Snapshot is the last saved byte image of a database.
// An empty Data slice denotes an empty database.
type Snapshot struct {
	// Name is the logical database name, used as the store key.
	Name string

	// Data is the serialised database image.
	Data []byte

	// Revision identifies this particular save.
	Revision string

	// SavedAt is when the snapshot was written.
	SavedAt time.Time
}
