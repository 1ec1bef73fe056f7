// Package specvalidator performs a lightweight surface check on an incoming
// spec payload. It is deliberately not an authoritative OpenAPI parser —
// that is an external concern — only a cheap accept/reject pre-filter.
package specvalidator

import "strings"

// DefaultMaxBytes is the default maximum accepted spec size, 10 MiB.
const DefaultMaxBytes = 10 * 1024 * 1024

// Result is the outcome of a validation pass.
type Result struct {
	OK      bool
	Message string
}

// Validator performs the surface checks described in spec.md §4.2.
type Validator struct {
	MaxBytes int
}

// New returns a Validator with the given max size, or DefaultMaxBytes if
// maxBytes is zero or negative.
func New(maxBytes int) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{MaxBytes: maxBytes}
}

// Validate runs the ordered surface checks against content, returning on the
// first failure.
func (v *Validator) Validate(content []byte) Result {
	if len(content) == 0 {
		return Result{false, "Specification is empty"}
	}

	if len(content) > v.MaxBytes {
		return Result{false, "Specification exceeds maximum allowed size"}
	}

	lowered := strings.ToLower(string(content))

	if !strings.Contains(lowered, "openapi") {
		return Result{false, "Document does not appear to be an OpenAPI specification"}
	}

	if strings.Contains(lowered, "swagger: 2") {
		return Result{false, "Swagger 2.0 documents are not supported"}
	}

	if !strings.Contains(lowered, "openapi: 3") {
		return Result{false, "Only OpenAPI 3.x documents are supported"}
	}

	return Result{true, "Valid specification"}
}
