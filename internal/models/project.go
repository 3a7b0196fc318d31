package models

import "time"

// Project represents a container for issues
// Projects are the top-level organizational unit in NextHub
type Project struct {
	ID          string
	Name        string
	Slug        string // URL-safe identifier derived from Name, unique across projects
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectSummary is a DTO for project lists and the dashboard
// Carries the issue count without loading the issues themselves
type ProjectSummary struct {
	ID          string
	Name        string
	Slug        string
	Description string
	IssueCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectDetail is a DTO for the project page: the project plus its
// full issue list, newest first
type ProjectDetail struct {
	Project
	IssueCount int
	Issues     []*IssueSummary
}
