package config

// Section is one named group of settings persisted under its ID.
type Section interface {
	// ID is the key the section is stored under
	ID() string

	// Title is a short human readable name
	Title() string

	// Description explains what the section controls
	Description() string

	// Data returns the section as plain values suitable for the store
	Data() map[string]interface{}

	// SetData applies stored values; unknown keys are ignored
	SetData(data map[string]interface{}) error

	// Validate checks the current values
	Validate() error

	// Reset restores defaults
	Reset()
}
