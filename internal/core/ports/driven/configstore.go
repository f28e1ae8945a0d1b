package driven

// ConfigStore holds flat dot-notation settings such as "chunker.chunk_size".
// The typed getters return the zero value for missing keys and for values
// of another type; GetInt and GetFloat widen numeric values.
type ConfigStore interface {
	// Get reports whether key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores value. File-backed stores persist immediately.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is the backing file, or a marker for in-memory stores.
	Path() string
}
