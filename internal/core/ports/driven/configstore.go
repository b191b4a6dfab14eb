package driven

// ConfigStore provides persistent key-value configuration access.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when absent.
	GetInt(key string) int

	// GetFloat retrieves a float value, or 0 when absent.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, or false when absent.
	GetBool(key string) bool

	// Set stores a configuration value in memory.
	Set(key string, value any)

	// Save persists the current values.
	Save() error
}
