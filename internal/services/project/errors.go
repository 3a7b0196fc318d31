package project

import "errors"

// Domain errors for project service
var (
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrProjectNotFound  = errors.New("project not found")

	// ErrProjectExists is a uniqueness conflict on the derived slug,
	// surfaced as a single message rather than a field error
	ErrProjectExists = errors.New("a project with this name already exists")
)
