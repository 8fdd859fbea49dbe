package driven

// ConfigStore holds capsql settings under dot-notation keys such as
// "storage.backend" (see the Key constants in domain).
type ConfigStore interface {
	// Get returns the value stored for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key if it is a string, else "".
	GetString(key string) string

	// GetBool returns the value for key if it is a bool, else false.
	GetBool(key string) bool

	// Keys lists the keys that are set, sorted.
	Keys() []string

	// Set stores value for key and persists it before returning.
	Set(key string, value any) error

	// Unset removes key so its default applies again.
	// Removing a key that is not set is not an error.
	Unset(key string) error

	// Load rereads the backing storage, discarding unsaved state.
	Load() error

	// Path identifies the backing storage, for messages.
	Path() string
}
