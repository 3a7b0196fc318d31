// Package label implements the mutation orchestrators for labels and
// the issue/label association, including the idempotent-in-effect toggle.
package label

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/events"
	"github.com/thenoetrevino/nexthub/internal/models"
	"github.com/thenoetrevino/nexthub/internal/validation"
)

// Service defines all label-related business operations
type Service interface {
	// Read operations
	List(ctx context.Context) ([]*models.LabelSummary, error)
	GetForIssue(ctx context.Context, issueID string) ([]*models.Label, error)

	// Write operations
	Create(ctx context.Context, form validation.LabelForm) (*models.Label, error)
	Update(ctx context.Context, id string, form validation.LabelForm) (*models.Label, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, issueID, labelID string) error
}

// repository defines the data access methods needed by the label service
type repository interface {
	CreateLabel(ctx context.Context, name, color string) (*models.Label, error)
	GetLabelByID(ctx context.Context, id string) (*models.Label, error)
	LabelNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	ListLabels(ctx context.Context) ([]*models.LabelSummary, error)
	GetLabelsForIssue(ctx context.Context, issueID string) ([]*models.Label, error)
	UpdateLabel(ctx context.Context, id, name, color string) error
	DeleteLabel(ctx context.Context, id string) error
	HasIssueLabel(ctx context.Context, issueID, labelID string) (bool, error)
	AddIssueLabel(ctx context.Context, issueID, labelID string) error
	RemoveIssueLabel(ctx context.Context, issueID, labelID string) error
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
}

// service implements Service interface with private repository
type service struct {
	repo      repository
	publisher events.Publisher
}

// NewService creates a new label service
func NewService(repo repository, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// List retrieves all labels with usage counts, ordered by name
func (s *service) List(ctx context.Context) ([]*models.LabelSummary, error) {
	return s.repo.ListLabels(ctx)
}

// GetForIssue retrieves the labels attached to an issue
func (s *service) GetForIssue(ctx context.Context, issueID string) ([]*models.Label, error) {
	if issueID == "" {
		return nil, ErrIssueNotFound
	}
	return s.repo.GetLabelsForIssue(ctx, issueID)
}

// Create validates the form, checks name uniqueness, and persists a new
// label. A name collision returns ErrLabelExists.
func (s *service) Create(ctx context.Context, form validation.LabelForm) (*models.Label, error) {
	in, fieldErrs := validation.ValidateLabel(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	taken, err := s.repo.LabelNameTaken(ctx, in.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}
	if taken {
		return nil, ErrLabelExists
	}

	l, err := s.repo.CreateLabel(ctx, in.Name, in.Color)
	if err != nil {
		// The unique constraint backstops the check above under concurrency
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrLabelExists
		}
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	s.publish(events.ViewLabels)
	return l, nil
}

// Update validates the form and persists the change. The name-uniqueness
// check excludes the label being updated.
func (s *service) Update(ctx context.Context, id string, form validation.LabelForm) (*models.Label, error) {
	if id == "" {
		return nil, ErrInvalidLabelID
	}

	in, fieldErrs := validation.ValidateLabel(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	taken, err := s.repo.LabelNameTaken(ctx, in.Name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}
	if taken {
		return nil, ErrLabelExists
	}

	err = s.repo.UpdateLabel(ctx, id, in.Name, in.Color)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrLabelNotFound
	}
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ErrLabelExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update label: %w", err)
	}

	updated, err := s.repo.GetLabelByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload label: %w", err)
	}

	s.publish(events.ViewLabels)
	return updated, nil
}

// Delete removes a label; its issue associations cascade away with it
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidLabelID
	}

	err := s.repo.DeleteLabel(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrLabelNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	s.publish(events.ViewLabels)
	return nil
}

// Toggle flips the association between an issue and a label: present
// becomes absent, absent becomes present. Each invocation performs
// exactly one state flip; two sequential calls are a net no-op.
func (s *service) Toggle(ctx context.Context, issueID, labelID string) error {
	issue, err := s.repo.GetIssueByID(ctx, issueID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get issue: %w", err)
	}

	if _, err := s.repo.GetLabelByID(ctx, labelID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrLabelNotFound
		}
		return fmt.Errorf("failed to get label: %w", err)
	}

	has, err := s.repo.HasIssueLabel(ctx, issueID, labelID)
	if err != nil {
		return fmt.Errorf("failed to check issue label: %w", err)
	}

	if has {
		if err := s.repo.RemoveIssueLabel(ctx, issueID, labelID); err != nil {
			return fmt.Errorf("failed to remove issue label: %w", err)
		}
	} else {
		err := s.repo.AddIssueLabel(ctx, issueID, labelID)
		// A concurrent toggle may have attached the pair first; the join
		// primary key rejects the duplicate and the pair stays attached
		if err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("failed to add issue label: %w", err)
		}
	}

	s.publishForIssue(ctx, issue)
	return nil
}

// publishForIssue invalidates the project detail view of the issue's
// owning project
func (s *service) publishForIssue(ctx context.Context, issue *models.Issue) {
	if s.publisher == nil {
		return
	}

	project, err := s.repo.GetProjectByID(ctx, issue.ProjectID)
	if err != nil {
		slog.Error("failed to resolve project for invalidation event", "error", err)
		s.publish(events.ViewDashboard)
		return
	}
	s.publish(events.ViewProject(project.Slug), events.ViewDashboard)
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
