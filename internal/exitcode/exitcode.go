// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank text, unknown task).
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 2

	// StorageError indicates the durable storage could not be read or written.
	StorageError = 3

	// TerminalError indicates the interactive UI could not drive the terminal.
	TerminalError = 4
)
