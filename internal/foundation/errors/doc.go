// Package errors provides foundational, type-safe error primitives used across markupdown.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Classification that mirrors the build failure taxonomy
//     (source_not_found, template_not_found, template_not_specified,
//     malformed_document, assertion_violation) plus infrastructure categories
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, immediate, backoff, user)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Example usage:
//
//	err := errors.TemplateNotFound("template not found").
//		WithContext("template", name).
//		WithContext("path", doc.Path).
//		Build()
//
// Sentinel kinds such as ErrTemplateNotFound match any ClassifiedError of the
// same category through the standard errors.Is.
package errors
