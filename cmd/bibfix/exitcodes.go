package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, I/O failure)
	ExitConfigError = 2 // Configuration error (bad config file, missing abbreviation list)
	ExitDataError   = 3 // Data error (malformed bibliography, failed checks)
)
