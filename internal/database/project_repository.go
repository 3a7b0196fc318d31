package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/nexthub/internal/models"
)

// projectColumns is the ordered list of columns selected in project queries.
// Must match the scan order in scanProject.
const projectColumns = `id, name, slug, description, created_at, updated_at`

// ProjectRepo handles pure data access for projects.
// No business logic, no events, no validation - just database operations.
type ProjectRepo struct {
	db DBTX
}

// withTx returns a copy of the repository bound to the given transaction
func (r *ProjectRepo) withTx(tx *sql.Tx) *ProjectRepo {
	return &ProjectRepo{db: tx}
}

// scanProject scans a sql.Row (or sql.Rows via its Scan method) into a models.Project
func scanProject(scanner interface{ Scan(dest ...any) error }) (*models.Project, error) {
	var p models.Project
	var createdAt, updatedAt string

	err := scanner.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new project.
// Returns ErrDuplicate when the slug is already taken.
func (r *ProjectRepo) CreateProject(ctx context.Context, name, slug, description string) (*models.Project, error) {
	now := time.Now().UTC()
	p := &models.Project{
		ID:          newID(),
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// GetProjectByID retrieves a project by its identifier.
// Returns ErrNotFound if the project does not exist.
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

// GetProjectBySlug retrieves a project by its slug.
// Returns ErrNotFound if no project carries the slug.
func (r *ProjectRepo) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %q: %w", slug, err)
	}
	return p, nil
}

// SlugTaken reports whether another project already uses the given slug.
// Pass the ID of the project being updated to exclude it from the check,
// or an empty string on create.
func (r *ProjectRepo) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`,
		slug, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

// ListProjects retrieves all projects with their issue counts,
// most recently updated first
func (r *ProjectRepo) ListProjects(ctx context.Context) ([]*models.ProjectSummary, error) {
	return r.listProjectSummaries(ctx, `
		SELECT p.id, p.name, p.slug, p.description, p.created_at, p.updated_at,
		       COUNT(i.id)
		FROM projects p
		LEFT JOIN issues i ON i.project_id = p.id
		GROUP BY p.id
		ORDER BY p.updated_at DESC`)
}

// ListRecentProjects retrieves the most recently updated projects with
// their issue counts, capped at limit
func (r *ProjectRepo) ListRecentProjects(ctx context.Context, limit int) ([]*models.ProjectSummary, error) {
	return r.listProjectSummaries(ctx, `
		SELECT p.id, p.name, p.slug, p.description, p.created_at, p.updated_at,
		       COUNT(i.id)
		FROM projects p
		LEFT JOIN issues i ON i.project_id = p.id
		GROUP BY p.id
		ORDER BY p.updated_at DESC
		LIMIT ?`, limit)
}

// SearchProjects finds projects whose name or description contains the term,
// capped at limit. Matching is case-insensitive.
func (r *ProjectRepo) SearchProjects(ctx context.Context, term string, limit int) ([]*models.ProjectSummary, error) {
	pattern := "%" + escapeLike(term) + "%"
	return r.listProjectSummaries(ctx, `
		SELECT p.id, p.name, p.slug, p.description, p.created_at, p.updated_at,
		       COUNT(i.id)
		FROM projects p
		LEFT JOIN issues i ON i.project_id = p.id
		WHERE p.name LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\'
		GROUP BY p.id
		ORDER BY p.updated_at DESC
		LIMIT ?`, pattern, pattern, limit)
}

// listProjectSummaries runs a query selecting project columns plus an
// issue count and scans the rows into summaries
func (r *ProjectRepo) listProjectSummaries(ctx context.Context, query string, args ...any) ([]*models.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []*models.ProjectSummary
	for rows.Next() {
		s := &models.ProjectSummary{}
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Description,
			&createdAt, &updatedAt, &s.IssueCount); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateProject updates a project's name, slug, and description.
// Returns ErrNotFound if the project does not exist and ErrDuplicate
// when the new slug collides with another project.
func (r *ProjectRepo) UpdateProject(ctx context.Context, id, name, slug, description string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, slug = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		name, slug, description, formatTime(time.Now()), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project.
// Issues and their label associations cascade at the storage level.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
