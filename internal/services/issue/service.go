// Package issue implements the mutation orchestrators for issues.
// Issue numbers are assigned monotonically per project inside a
// transaction; number and project affiliation never change afterwards.
package issue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/events"
	"github.com/thenoetrevino/nexthub/internal/models"
	"github.com/thenoetrevino/nexthub/internal/validation"
)

// createAttempts bounds retries when a concurrent create claims the same
// issue number; the (project, number) unique constraint detects the race.
const createAttempts = 2

// Service defines all issue-related business operations
type Service interface {
	// Read operations
	Get(ctx context.Context, projectSlug string, number int) (*models.IssueDetail, error)

	// Write operations
	Create(ctx context.Context, projectSlug string, form validation.IssueForm) (*models.Issue, error)
	Update(ctx context.Context, id string, form validation.IssueForm) (*models.Issue, error)
	UpdateStatus(ctx context.Context, id string, status models.IssueStatus) error
	Delete(ctx context.Context, id string) error
}

// repository defines the data access methods needed by the issue service
type repository interface {
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	NextIssueNumber(ctx context.Context, projectID string) (int, error)
	CreateIssue(ctx context.Context, projectID string, number int, title, description string,
		status models.IssueStatus, priority models.IssuePriority) (*models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetIssueByNumber(ctx context.Context, projectID string, number int) (*models.Issue, error)
	GetLabelsForIssue(ctx context.Context, issueID string) ([]*models.Label, error)
	UpdateIssue(ctx context.Context, id, title, description string,
		status models.IssueStatus, priority models.IssuePriority) error
	UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) error
	DeleteIssue(ctx context.Context, id string) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	WithTx(tx *sql.Tx) database.DataStore
}

// service implements Service interface with private repository
type service struct {
	repo      repository
	publisher events.Publisher
}

// NewService creates a new issue service
func NewService(repo repository, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// Get retrieves an issue by project slug and per-project number, with the
// owning project and labels. A missing project or number is an absence,
// not an error: (nil, nil).
func (s *service) Get(ctx context.Context, projectSlug string, number int) (*models.IssueDetail, error) {
	project, err := s.repo.GetProjectBySlug(ctx, projectSlug)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	issue, err := s.repo.GetIssueByNumber(ctx, project.ID, number)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	labels, err := s.repo.GetLabelsForIssue(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue labels: %w", err)
	}

	return &models.IssueDetail{Issue: *issue, Project: project, Labels: labels}, nil
}

// Create validates the form, resolves the owning project by slug, assigns
// the next issue number, and persists. Number assignment and insert share a
// transaction; a lost race on the number is retried once.
func (s *service) Create(ctx context.Context, projectSlug string, form validation.IssueForm) (*models.Issue, error) {
	in, fieldErrs := validation.ValidateIssue(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	project, err := s.repo.GetProjectBySlug(ctx, projectSlug)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var issue *models.Issue
	for attempt := 0; attempt < createAttempts; attempt++ {
		issue, err = s.createNumbered(ctx, project.ID, in)
		if !errors.Is(err, database.ErrDuplicate) {
			break
		}
	}
	if errors.Is(err, database.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create issue: issue number contention: %w", err)
	}
	if err != nil {
		return nil, err
	}

	s.publish(events.ViewProject(project.Slug), events.ViewDashboard)
	return issue, nil
}

// createNumbered runs one number-assignment plus insert transaction.
// Returns database.ErrDuplicate when a concurrent create won the number.
func (s *service) createNumbered(ctx context.Context, projectID string, in validation.IssueInput) (*models.Issue, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	repoTx := s.repo.WithTx(tx)

	number, err := repoTx.NextIssueNumber(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next issue number: %w", err)
	}

	issue, err := repoTx.CreateIssue(ctx, projectID, number, in.Title, in.Description, in.Status, in.Priority)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, database.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return issue, nil
}

// Update validates the form and persists the issue's editable fields
func (s *service) Update(ctx context.Context, id string, form validation.IssueForm) (*models.Issue, error) {
	if id == "" {
		return nil, ErrInvalidIssueID
	}

	in, fieldErrs := validation.ValidateIssue(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	err := s.repo.UpdateIssue(ctx, id, in.Title, in.Description, in.Status, in.Priority)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	updated, err := s.repo.GetIssueByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload issue: %w", err)
	}

	s.publishForIssue(ctx, updated)
	return updated, nil
}

// UpdateStatus is the quick action: it takes an enumerated status directly
// and bypasses full-form validation
func (s *service) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) error {
	if id == "" {
		return ErrInvalidIssueID
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}

	err := s.repo.UpdateIssueStatus(ctx, id, status)
	if errors.Is(err, database.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update issue status: %w", err)
	}

	issue, err := s.repo.GetIssueByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload issue: %w", err)
	}

	s.publishForIssue(ctx, issue)
	return nil
}

// Delete removes an issue by identifier
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidIssueID
	}

	issue, err := s.repo.GetIssueByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get issue: %w", err)
	}

	err = s.repo.DeleteIssue(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	s.publishForIssue(ctx, issue)
	return nil
}

// publishForIssue invalidates the views affected by a change to the given
// issue: its project's detail page and the dashboard
func (s *service) publishForIssue(ctx context.Context, issue *models.Issue) {
	if s.publisher == nil {
		return
	}

	views := []events.View{events.ViewDashboard}
	project, err := s.repo.GetProjectByID(ctx, issue.ProjectID)
	if err != nil {
		slog.Error("failed to resolve project for invalidation event", "error", err)
	} else {
		views = append(views, events.ViewProject(project.Slug))
	}
	s.publish(views...)
}

// publish emits a view-invalidation event if a publisher is configured
func (s *service) publish(views ...events.View) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(events.Event{Views: views}); err != nil {
		slog.Error("failed to publish invalidation event", "error", err)
	}
}
