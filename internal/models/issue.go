package models

import "time"

// IssueStatus is the workflow state of an issue
type IssueStatus string

// Issue status values
const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusClosed     IssueStatus = "closed"

	// DefaultStatus is applied when a form omits the status field
	DefaultStatus = StatusOpen
)

// IssueStatuses lists all valid statuses in display order
var IssueStatuses = []IssueStatus{StatusOpen, StatusInProgress, StatusClosed}

// Valid reports whether s is one of the enumerated statuses
func (s IssueStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Label returns the human-readable form of the status (e.g. "In Progress")
func (s IssueStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

// Color returns the display color for the status badge
func (s IssueStatus) Color() string {
	switch s {
	case StatusOpen:
		return "#22c55e"
	case StatusInProgress:
		return "#3b82f6"
	case StatusClosed:
		return "#6b7280"
	}
	return "#6b7280"
}

// IssuePriority is the urgency level of an issue
type IssuePriority string

// Issue priority values
const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"

	// DefaultPriority is applied when a form omits the priority field
	DefaultPriority = PriorityMedium
)

// IssuePriorities lists all valid priorities in display order
var IssuePriorities = []IssuePriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is one of the enumerated priorities
func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the human-readable form of the priority
func (p IssuePriority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return string(p)
}

// Color returns the display color for the priority badge
func (p IssuePriority) Color() string {
	switch p {
	case PriorityLow:
		return "#6b7280"
	case PriorityMedium:
		return "#f59e0b"
	case PriorityHigh:
		return "#f97316"
	case PriorityUrgent:
		return "#ef4444"
	}
	return "#6b7280"
}

// Issue represents a single tracked issue within a project
// Number is unique within the owning project and assigned monotonically,
// so issues are referenced as "#4" relative to their project
type Issue struct {
	ID          string
	Number      int
	Title       string
	Description string
	Status      IssueStatus
	Priority    IssuePriority
	ProjectID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssueSummary is a DTO for issue lists: the issue plus its labels
type IssueSummary struct {
	Issue
	Labels []*Label
}

// IssueDetail is a DTO for the full issue view, including the owning project
type IssueDetail struct {
	Issue
	Project *Project
	Labels  []*Label
}
