package issue

import "errors"

// Domain errors for issue service
var (
	ErrInvalidIssueID  = errors.New("invalid issue ID")
	ErrInvalidStatus   = errors.New("invalid issue status")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrProjectNotFound = errors.New("project not found")
)
