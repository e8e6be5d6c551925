// Package errors provides foundational, type-safe error primitives used
// across the registry.
//
// The central type is ClassifiedError: a structured error with a category
// (validation, not_found, filesystem, ...), a severity, and a key/value
// context map, constructed through a fluent builder.
//
// Example usage:
//
//	err := errors.ValidationError("duplicate page path").
//		WithContext("path", page.Path).
//		Build()
//
// Callers branch on classification with IsValidation / IsNotFound /
// HasCategory rather than string matching.
package errors
