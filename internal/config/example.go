package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskdeck configuration file
# Values can be overridden by TASKDECK_* environment variables or CLI flags

# Data directory (supports ~ expansion)
data_dir = "~/.taskdeck"

# Storage backend: file or sqlite
backend = "file"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, logfmt, json
log_format = "text"

# Include timestamps in log output
log_timestamps = false
`
}
