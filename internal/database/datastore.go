package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/nexthub/internal/models"
)

// DataStore is the persistence gateway consumed by the service layer.
// Services that only need a slice of it declare their own private
// interfaces; this is the full surface, implemented by Repository.
type DataStore interface {
	// Project operations
	CreateProject(ctx context.Context, name, slug, description string) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	ListProjects(ctx context.Context) ([]*models.ProjectSummary, error)
	ListRecentProjects(ctx context.Context, limit int) ([]*models.ProjectSummary, error)
	SearchProjects(ctx context.Context, term string, limit int) ([]*models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id, name, slug, description string) error
	DeleteProject(ctx context.Context, id string) error

	// Issue operations
	NextIssueNumber(ctx context.Context, projectID string) (int, error)
	CreateIssue(ctx context.Context, projectID string, number int, title, description string,
		status models.IssueStatus, priority models.IssuePriority) (*models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetIssueByNumber(ctx context.Context, projectID string, number int) (*models.Issue, error)
	ListIssuesByProject(ctx context.Context, projectID string) ([]*models.IssueSummary, error)
	ListRecentIssues(ctx context.Context, limit int) ([]*models.IssueDetail, error)
	SearchIssues(ctx context.Context, term string, limit int) ([]*models.IssueDetail, error)
	UpdateIssue(ctx context.Context, id, title, description string,
		status models.IssueStatus, priority models.IssuePriority) error
	UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) error
	DeleteIssue(ctx context.Context, id string) error
	DeleteIssuesByProject(ctx context.Context, projectID string) error
	CountIssues(ctx context.Context) (int, error)
	CountIssuesByStatus(ctx context.Context) (map[models.IssueStatus]int, error)

	// Label operations
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
	RemoveIssueLabelsByProject(ctx context.Context, projectID string) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	WithTx(tx *sql.Tx) DataStore
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)
