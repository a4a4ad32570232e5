package config

// Config represents the complete application configuration that
// buildq supports.
type Config struct {
	// Bind is the address the API server listens on.
	Bind string

	// Store names the storage factory used for farm state.
	Store string

	// Arches lists the architectures the farm expects to see.
	// Purely informational; builders of other arches still
	// register fine.
	Arches []string
}
