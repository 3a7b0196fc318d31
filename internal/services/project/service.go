// Package project implements the mutation orchestrators for projects:
// validation, slug derivation, uniqueness checks, cascade-safe deletion.
package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/events"
	"github.com/thenoetrevino/nexthub/internal/models"
	"github.com/thenoetrevino/nexthub/internal/slug"
	"github.com/thenoetrevino/nexthub/internal/validation"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	List(ctx context.Context) ([]*models.ProjectSummary, error)
	Get(ctx context.Context, slug string) (*models.Project, error)

	// Write operations
	Create(ctx context.Context, form validation.ProjectForm) (*models.Project, error)
	Update(ctx context.Context, id string, form validation.ProjectForm) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// repository defines the data access methods needed by the project service
// This interface is private to the service layer
type repository interface {
	CreateProject(ctx context.Context, name, slug, description string) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	ListProjects(ctx context.Context) ([]*models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id, name, slug, description string) error
	DeleteProject(ctx context.Context, id string) error
	DeleteIssuesByProject(ctx context.Context, projectID string) error
	RemoveIssueLabelsByProject(ctx context.Context, projectID string) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	WithTx(tx *sql.Tx) database.DataStore
}

// service implements Service interface with private repository
type service struct {
	repo      repository
	publisher events.Publisher
}

// NewService creates a new project service
func NewService(repo repository, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// List retrieves all projects with issue counts, most recently updated first
func (s *service) List(ctx context.Context) ([]*models.ProjectSummary, error) {
	return s.repo.ListProjects(ctx)
}

// Get retrieves a project by slug.
// A missing slug is an absence, not an error: (nil, nil).
func (s *service) Get(ctx context.Context, slugStr string) (*models.Project, error) {
	p, err := s.repo.GetProjectBySlug(ctx, slugStr)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Create validates the form, derives the slug, and persists a new project.
// A slug collision returns ErrProjectExists; validation failures return
// validation.FieldErrors.
func (s *service) Create(ctx context.Context, form validation.ProjectForm) (*models.Project, error) {
	in, fieldErrs := validation.ValidateProject(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	projectSlug := slug.Make(in.Name)

	taken, err := s.repo.SlugTaken(ctx, projectSlug, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrProjectExists
	}

	p, err := s.repo.CreateProject(ctx, in.Name, projectSlug, in.Description)
	if err != nil {
		// The unique constraint backstops the check above under concurrency
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrProjectExists
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.publish(events.ViewProjects, events.ViewDashboard, events.ViewProject(p.Slug))
	return p, nil
}

// Update validates the form, re-derives the slug from the new name, and
// persists the change. The collision check excludes the project itself.
func (s *service) Update(ctx context.Context, id string, form validation.ProjectForm) (*models.Project, error) {
	if id == "" {
		return nil, ErrInvalidProjectID
	}

	in, fieldErrs := validation.ValidateProject(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	existing, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	projectSlug := slug.Make(in.Name)

	taken, err := s.repo.SlugTaken(ctx, projectSlug, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrProjectExists
	}

	err = s.repo.UpdateProject(ctx, id, in.Name, projectSlug, in.Description)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ErrProjectExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	// The old slug's detail view is stale too when the name changed
	s.publish(events.ViewProjects, events.ViewDashboard,
		events.ViewProject(existing.Slug), events.ViewProject(updated.Slug))
	return updated, nil
}

// Delete removes a project together with its issues and their label
// associations as one transaction. Join rows and issues are deleted
// explicitly; the storage-level cascade is the backstop.
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidProjectID
	}

	existing, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	repoTx := s.repo.WithTx(tx)

	if err := repoTx.RemoveIssueLabelsByProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete issue labels: %w", err)
	}
	if err := repoTx.DeleteIssuesByProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete issues: %w", err)
	}
	if err := repoTx.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publish(events.ViewProjects, events.ViewDashboard, events.ViewProject(existing.Slug))
	return nil
}

// publish emits a view-invalidation event if a publisher is configured.
// Failures are logged, never surfaced: the mutation already committed.
func (s *service) publish(views ...events.View) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(events.Event{Views: views}); err != nil {
		slog.Error("failed to publish invalidation event", "error", err)
	}
}
