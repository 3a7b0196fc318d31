package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/nexthub/internal/models"
)

// issueColumns is the ordered list of columns selected in issue queries.
// Must match the scan order in scanIssue.
const issueColumns = `id, number, title, description, status, priority, project_id, created_at, updated_at`

// IssueRepo handles pure data access for issues
type IssueRepo struct {
	db DBTX
}

// withTx returns a copy of the repository bound to the given transaction
func (r *IssueRepo) withTx(tx *sql.Tx) *IssueRepo {
	return &IssueRepo{db: tx}
}

// scanIssue scans a sql.Row (or sql.Rows via its Scan method) into a models.Issue
func scanIssue(scanner interface{ Scan(dest ...any) error }) (*models.Issue, error) {
	var i models.Issue
	var status, priority, createdAt, updatedAt string

	err := scanner.Scan(&i.ID, &i.Number, &i.Title, &i.Description,
		&status, &priority, &i.ProjectID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	i.Status = models.IssueStatus(status)
	i.Priority = models.IssuePriority(priority)
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// NextIssueNumber returns one plus the highest issue number in the project,
// starting at 1 for a project without issues. Deleted issues leave gaps;
// their numbers are never reassigned.
func (r *IssueRepo) NextIssueNumber(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM issues WHERE project_id = ?`,
		projectID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next issue number for project %s: %w", projectID, err)
	}
	return next, nil
}

// CreateIssue inserts a new issue with the given per-project number.
// Returns ErrDuplicate when the (project, number) pair is already taken.
func (r *IssueRepo) CreateIssue(ctx context.Context, projectID string, number int,
	title, description string, status models.IssueStatus, priority models.IssuePriority,
) (*models.Issue, error) {
	now := time.Now().UTC()
	i := &models.Issue{
		ID:          newID(),
		Number:      number,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO issues (id, number, title, description, status, priority, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Number, i.Title, i.Description, string(i.Status), string(i.Priority),
		i.ProjectID, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return i, nil
}

// GetIssueByID retrieves an issue by its identifier.
// Returns ErrNotFound if the issue does not exist.
func (r *IssueRepo) GetIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)

	i, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", id, err)
	}
	return i, nil
}

// GetIssueByNumber retrieves an issue by its per-project number.
// Returns ErrNotFound if the project has no issue with that number.
func (r *IssueRepo) GetIssueByNumber(ctx context.Context, projectID string, number int) (*models.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE project_id = ? AND number = ?`,
		projectID, number)

	i, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue #%d in project %s: %w", number, projectID, err)
	}
	return i, nil
}

// ListIssuesByProject retrieves all issues of a project with their labels,
// newest first. The list is unbounded.
func (r *IssueRepo) ListIssuesByProject(ctx context.Context, projectID string) ([]*models.IssueSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE project_id = ? ORDER BY created_at DESC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var summaries []*models.IssueSummary
	byID := make(map[string]*models.IssueSummary)
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		s := &models.IssueSummary{Issue: *i}
		summaries = append(summaries, s)
		byID[i.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach labels in one pass instead of one query per issue
	labelRows, err := r.db.QueryContext(ctx, `
		SELECT il.issue_id, l.id, l.name, l.color
		FROM issue_labels il
		INNER JOIN labels l ON l.id = il.label_id
		INNER JOIN issues i ON i.id = il.issue_id
		WHERE i.project_id = ?
		ORDER BY l.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue labels for project %s: %w", projectID, err)
	}
	defer labelRows.Close()

	for labelRows.Next() {
		var issueID string
		label := &models.Label{}
		if err := labelRows.Scan(&issueID, &label.ID, &label.Name, &label.Color); err != nil {
			return nil, err
		}
		if s, ok := byID[issueID]; ok {
			s.Labels = append(s.Labels, label)
		}
	}
	return summaries, labelRows.Err()
}

// ListRecentIssues retrieves the most recently created issues across all
// projects, each with its owning project and labels, capped at limit
func (r *IssueRepo) ListRecentIssues(ctx context.Context, limit int) ([]*models.IssueDetail, error) {
	details, err := r.listIssueDetails(ctx, `
		SELECT i.id, i.number, i.title, i.description, i.status, i.priority,
		       i.project_id, i.created_at, i.updated_at,
		       p.id, p.name, p.slug, p.description, p.created_at, p.updated_at
		FROM issues i
		INNER JOIN projects p ON p.id = i.project_id
		ORDER BY i.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	for _, d := range details {
		labels, err := r.labelsForIssue(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.Labels = labels
	}
	return details, nil
}

// SearchIssues finds issues whose title or description contains the term,
// each with its owning project, capped at limit. Matching is case-insensitive.
func (r *IssueRepo) SearchIssues(ctx context.Context, term string, limit int) ([]*models.IssueDetail, error) {
	pattern := "%" + escapeLike(term) + "%"
	return r.listIssueDetails(ctx, `
		SELECT i.id, i.number, i.title, i.description, i.status, i.priority,
		       i.project_id, i.created_at, i.updated_at,
		       p.id, p.name, p.slug, p.description, p.created_at, p.updated_at
		FROM issues i
		INNER JOIN projects p ON p.id = i.project_id
		WHERE i.title LIKE ? ESCAPE '\' OR i.description LIKE ? ESCAPE '\'
		ORDER BY i.created_at DESC
		LIMIT ?`, pattern, pattern, limit)
}

// listIssueDetails runs a query selecting issue columns followed by project
// columns and scans the rows into details (labels left for the caller)
func (r *IssueRepo) listIssueDetails(ctx context.Context, query string, args ...any) ([]*models.IssueDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var details []*models.IssueDetail
	for rows.Next() {
		d := &models.IssueDetail{Project: &models.Project{}}
		var status, priority, iCreated, iUpdated, pCreated, pUpdated string
		err := rows.Scan(
			&d.ID, &d.Number, &d.Title, &d.Description, &status, &priority,
			&d.ProjectID, &iCreated, &iUpdated,
			&d.Project.ID, &d.Project.Name, &d.Project.Slug, &d.Project.Description,
			&pCreated, &pUpdated,
		)
		if err != nil {
			return nil, err
		}
		d.Status = models.IssueStatus(status)
		d.Priority = models.IssuePriority(priority)
		if d.CreatedAt, err = parseTime(iCreated); err != nil {
			return nil, err
		}
		if d.UpdatedAt, err = parseTime(iUpdated); err != nil {
			return nil, err
		}
		if d.Project.CreatedAt, err = parseTime(pCreated); err != nil {
			return nil, err
		}
		if d.Project.UpdatedAt, err = parseTime(pUpdated); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// labelsForIssue retrieves the labels attached to one issue, ordered by name
func (r *IssueRepo) labelsForIssue(ctx context.Context, issueID string) ([]*models.Label, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.color
		FROM labels l
		INNER JOIN issue_labels il ON l.id = il.label_id
		WHERE il.issue_id = ?
		ORDER BY l.name`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels for issue %s: %w", issueID, err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label := &models.Label{}
		if err := rows.Scan(&label.ID, &label.Name, &label.Color); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// UpdateIssue updates an issue's editable fields.
// Number and project affiliation are immutable after creation.
// Returns ErrNotFound if the issue does not exist.
func (r *IssueRepo) UpdateIssue(ctx context.Context, id, title, description string,
	status models.IssueStatus, priority models.IssuePriority,
) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE issues
		SET title = ?, description = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?`,
		title, description, string(status), string(priority), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update issue %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateIssueStatus updates only an issue's status.
// Returns ErrNotFound if the issue does not exist.
func (r *IssueRepo) UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE issues SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of issue %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update status of issue %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIssue removes an issue (cascade removes its label associations).
// Returns ErrNotFound if the issue does not exist.
func (r *IssueRepo) DeleteIssue(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete issue %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIssuesByProject removes all issues owned by a project
func (r *IssueRepo) DeleteIssuesByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete issues for project %s: %w", projectID, err)
	}
	return nil
}

// CountIssues returns the total number of issues across all projects
func (r *IssueRepo) CountIssues(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count issues: %w", err)
	}
	return count, nil
}

// CountIssuesByStatus returns per-status issue counts.
// Statuses with no issues are absent from the map.
func (r *IssueRepo) CountIssuesByStatus(ctx context.Context) (map[models.IssueStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM issues GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.IssueStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.IssueStatus(status)] = count
	}
	return counts, rows.Err()
}
