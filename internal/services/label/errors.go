package label

import "errors"

// Domain errors for label service
var (
	ErrInvalidLabelID = errors.New("invalid label ID")
	ErrLabelNotFound  = errors.New("label not found")
	ErrIssueNotFound  = errors.New("issue not found")

	// ErrLabelExists is a uniqueness conflict on the label name,
	// surfaced as a single message rather than a field error
	ErrLabelExists = errors.New("a label with this name already exists")
)
