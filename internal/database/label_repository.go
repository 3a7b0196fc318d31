package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/nexthub/internal/models"
)

// LabelRepo handles pure data access for labels and the issue/label join
type LabelRepo struct {
	db DBTX
}

// withTx returns a copy of the repository bound to the given transaction
func (r *LabelRepo) withTx(tx *sql.Tx) *LabelRepo {
	return &LabelRepo{db: tx}
}

// CreateLabel inserts a new label.
// Returns ErrDuplicate when the name is already taken.
func (r *LabelRepo) CreateLabel(ctx context.Context, name, color string) (*models.Label, error) {
	l := &models.Label{
		ID:    newID(),
		Name:  name,
		Color: color,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (id, name, color) VALUES (?, ?, ?)`,
		l.ID, l.Name, l.Color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return l, nil
}

// GetLabelByID retrieves a label by its identifier.
// Returns ErrNotFound if the label does not exist.
func (r *LabelRepo) GetLabelByID(ctx context.Context, id string) (*models.Label, error) {
	l := &models.Label{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM labels WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label %s: %w", id, err)
	}
	return l, nil
}

// LabelNameTaken reports whether another label already uses the given name.
// Pass the ID of the label being updated to exclude it from the check,
// or an empty string on create.
func (r *LabelRepo) LabelNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM labels WHERE name = ? AND id != ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check label name %q: %w", name, err)
	}
	return count > 0, nil
}

// ListLabels retrieves all labels with their usage counts, ordered by name
func (r *LabelRepo) ListLabels(ctx context.Context) ([]*models.LabelSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.color, COUNT(il.issue_id)
		FROM labels l
		LEFT JOIN issue_labels il ON il.label_id = l.id
		GROUP BY l.id
		ORDER BY l.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var summaries []*models.LabelSummary
	for rows.Next() {
		s := &models.LabelSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.IssueCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetLabelsForIssue retrieves all labels attached to an issue, ordered by name
func (r *LabelRepo) GetLabelsForIssue(ctx context.Context, issueID string) ([]*models.Label, error) {
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

// UpdateLabel updates a label's name and color.
// Returns ErrNotFound if the label does not exist and ErrDuplicate when
// the new name collides with another label.
func (r *LabelRepo) UpdateLabel(ctx context.Context, id, name, color string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE labels SET name = ?, color = ? WHERE id = ?`,
		name, color, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update label %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update label %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLabel removes a label (cascade removes its issue associations).
// Returns ErrNotFound if the label does not exist.
func (r *LabelRepo) DeleteLabel(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete label %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete label %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasIssueLabel reports whether the label is attached to the issue
func (r *LabelRepo) HasIssueLabel(ctx context.Context, issueID, labelID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issue_labels WHERE issue_id = ? AND label_id = ?`,
		issueID, labelID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check label %s on issue %s: %w", labelID, issueID, err)
	}
	return count > 0, nil
}

// AddIssueLabel attaches a label to an issue.
// Returns ErrDuplicate when the pair already exists, so a concurrent
// duplicate attach fails safely on the primary key instead of doubling.
func (r *LabelRepo) AddIssueLabel(ctx context.Context, issueID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO issue_labels (issue_id, label_id) VALUES (?, ?)`,
		issueID, labelID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add label %s to issue %s: %w", labelID, issueID, err)
	}
	return nil
}

// RemoveIssueLabel detaches a label from an issue
func (r *LabelRepo) RemoveIssueLabel(ctx context.Context, issueID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM issue_labels WHERE issue_id = ? AND label_id = ?`,
		issueID, labelID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove label %s from issue %s: %w", labelID, issueID, err)
	}
	return nil
}

// RemoveIssueLabelsByProject detaches every label from every issue of a
// project. Used ahead of project deletion so the cascade never leaves
// orphaned join rows.
func (r *LabelRepo) RemoveIssueLabelsByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM issue_labels
		WHERE issue_id IN (SELECT id FROM issues WHERE project_id = ?)`,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove issue labels for project %s: %w", projectID, err)
	}
	return nil
}
