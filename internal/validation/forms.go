package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/nexthub/internal/models"
)

// hexColorRegex matches full 6-digit hex colors like #d73a4a.
// Short forms (#fff) and named colors are rejected.
var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ProjectForm holds raw project fields as submitted
type ProjectForm struct {
	Name        string
	Description string
}

// ProjectInput is a validated, normalized project payload
type ProjectInput struct {
	Name        string
	Description string
}

// ValidateProject checks a ProjectForm and returns the normalized input.
// The returned FieldErrors is non-nil only when validation failed.
func ValidateProject(form ProjectForm) (ProjectInput, FieldErrors) {
	fe := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		fe.Add("name", "Name is required")
	} else if utf8.RuneCountInString(name) > 100 {
		fe.Add("name", "Name is too long")
	}

	if utf8.RuneCountInString(form.Description) > 500 {
		fe.Add("description", "Description is too long")
	}

	if fe.Any() {
		return ProjectInput{}, fe
	}
	return ProjectInput{Name: name, Description: form.Description}, nil
}

// IssueForm holds raw issue fields as submitted.
// Status and Priority arrive as strings; empty means "use the default".
type IssueForm struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// IssueInput is a validated, normalized issue payload
type IssueInput struct {
	Title       string
	Description string
	Status      models.IssueStatus
	Priority    models.IssuePriority
}

// ValidateIssue checks an IssueForm and returns the normalized input.
// Omitted status defaults to open, omitted priority to medium.
func ValidateIssue(form IssueForm) (IssueInput, FieldErrors) {
	fe := FieldErrors{}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		fe.Add("title", "Title is required")
	} else if utf8.RuneCountInString(title) > 200 {
		fe.Add("title", "Title is too long")
	}

	if utf8.RuneCountInString(form.Description) > 5000 {
		fe.Add("description", "Description is too long")
	}

	status := models.DefaultStatus
	if form.Status != "" {
		status = models.IssueStatus(form.Status)
		if !status.Valid() {
			fe.Add("status", "Invalid status")
		}
	}

	priority := models.DefaultPriority
	if form.Priority != "" {
		priority = models.IssuePriority(form.Priority)
		if !priority.Valid() {
			fe.Add("priority", "Invalid priority")
		}
	}

	if fe.Any() {
		return IssueInput{}, fe
	}
	return IssueInput{
		Title:       title,
		Description: form.Description,
		Status:      status,
		Priority:    priority,
	}, nil
}

// LabelForm holds raw label fields as submitted
type LabelForm struct {
	Name  string
	Color string
}

// LabelInput is a validated, normalized label payload
type LabelInput struct {
	Name  string
	Color string
}

// ValidateLabel checks a LabelForm and returns the normalized input
func ValidateLabel(form LabelForm) (LabelInput, FieldErrors) {
	fe := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		fe.Add("name", "Name is required")
	} else if utf8.RuneCountInString(name) > 50 {
		fe.Add("name", "Name is too long")
	}

	if !hexColorRegex.MatchString(form.Color) {
		fe.Add("color", "Invalid hex color")
	}

	if fe.Any() {
		return LabelInput{}, fe
	}
	return LabelInput{Name: name, Color: form.Color}, nil
}
