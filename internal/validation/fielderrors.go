// Package validation parses raw form input into normalized, typed records.
// Expected validation failures are reported as per-field message lists,
// never as panics.
package validation

import "strings"

// FieldErrors maps a field name to the ordered list of human-readable
// violation messages for that field. It implements error so services can
// return it directly; callers unwrap it with errors.As.
type FieldErrors map[string][]string

// Add appends a violation message for the given field
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Any reports whether at least one violation was recorded
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// Error joins all messages into a single string for logging.
// Presentation layers should render the per-field map instead.
func (fe FieldErrors) Error() string {
	var msgs []string
	for field, violations := range fe {
		for _, v := range violations {
			msgs = append(msgs, field+": "+v)
		}
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
