package errors

import "maps"

// ErrorCategory is the broad classification of an error, used for routing
// and presentation decisions (exit codes, HTTP status, log level).
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration errors.
	CategoryConfig ErrorCategory = "config"
	// CategoryValidation represents structural invariant violations found
	// while constructing a registry (duplicate path, alias collision,
	// dangling or cyclic menu parent).
	CategoryValidation ErrorCategory = "validation"
	// CategoryNotFound represents a lookup miss for a path or alias.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryFileSystem represents errors reading content sources.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryGit represents errors fetching a content repository.
	CategoryGit ErrorCategory = "git"
	// CategoryEventStore represents event store persistence errors.
	CategoryEventStore ErrorCategory = "eventstore"
	// CategoryNetwork represents external system integration errors (NATS).
	CategoryNetwork ErrorCategory = "network"

	// CategoryInternal represents programming errors and broken assumptions.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// Merge combines another context into this one; other wins on conflicts.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	maps.Copy(c, other)
	return c
}
