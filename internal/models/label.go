package models

// Label represents a reusable marker attachable to issues
// Labels are global and uniquely named, similar to GitHub labels
type Label struct {
	ID    string
	Name  string
	Color string // Hex color code (e.g., "#d73a4a")
}

// LabelSummary is a DTO for the label list, carrying the usage count
type LabelSummary struct {
	Label
	IssueCount int
}
