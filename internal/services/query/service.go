// Package query implements the read-only composed queries: the dashboard
// aggregate, the project detail view, and free-text search. Sub-queries of
// an aggregate run concurrently and the result is complete only once all
// of them return.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/models"
)

// Result caps
const (
	dashboardProjectLimit = 5
	dashboardIssueLimit   = 10
	searchProjectLimit    = 10
	searchIssueLimit      = 20
)

// Summary is the dashboard aggregate
type Summary struct {
	Projects     []*models.ProjectSummary   // top 5 most recently updated
	RecentIssues []*models.IssueDetail      // top 10 most recently created
	StatusCounts map[models.IssueStatus]int // statuses without issues are absent
	TotalIssues  int
}

// SearchResults holds both categories of substring matches
type SearchResults struct {
	Projects []*models.ProjectSummary
	Issues   []*models.IssueDetail
}

// Service defines the read-only composed queries
type Service interface {
	Dashboard(ctx context.Context) (*Summary, error)
	ProjectDetail(ctx context.Context, slug string) (*models.ProjectDetail, error)
	Search(ctx context.Context, query string) (*SearchResults, error)
}

// repository defines the data access methods needed by the query service
type repository interface {
	ListRecentProjects(ctx context.Context, limit int) ([]*models.ProjectSummary, error)
	ListRecentIssues(ctx context.Context, limit int) ([]*models.IssueDetail, error)
	CountIssues(ctx context.Context) (int, error)
	CountIssuesByStatus(ctx context.Context) (map[models.IssueStatus]int, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	ListIssuesByProject(ctx context.Context, projectID string) ([]*models.IssueSummary, error)
	SearchProjects(ctx context.Context, term string, limit int) ([]*models.ProjectSummary, error)
	SearchIssues(ctx context.Context, term string, limit int) ([]*models.IssueDetail, error)
}

// service implements Service interface with private repository
type service struct {
	repo repository
}

// NewService creates a new query service
func NewService(repo repository) Service {
	return &service{repo: repo}
}

// Dashboard runs the four dashboard sub-queries concurrently and returns
// the aggregate once all of them complete
func (s *service) Dashboard(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.repo.ListRecentProjects(ctx, dashboardProjectLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent projects: %w", err)
		}
		summary.Projects = projects
		return nil
	})
	g.Go(func() error {
		issues, err := s.repo.ListRecentIssues(ctx, dashboardIssueLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent issues: %w", err)
		}
		summary.RecentIssues = issues
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.CountIssuesByStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to load status counts: %w", err)
		}
		summary.StatusCounts = counts
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.CountIssues(ctx)
		if err != nil {
			return fmt.Errorf("failed to count issues: %w", err)
		}
		summary.TotalIssues = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// ProjectDetail retrieves one project by slug with its full issue list
// (labels included), newest issues first. The issue list is unbounded.
// An unknown slug is an absence, not an error: (nil, nil).
func (s *service) ProjectDetail(ctx context.Context, slug string) (*models.ProjectDetail, error) {
	project, err := s.repo.GetProjectBySlug(ctx, slug)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	issues, err := s.repo.ListIssuesByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	return &models.ProjectDetail{
		Project:    *project,
		IssueCount: len(issues),
		Issues:     issues,
	}, nil
}

// Search matches the trimmed query as a substring against project
// name/description and issue title/description, case-insensitively
// (SQLite LIKE semantics). An empty query returns empty result sets
// without touching storage. The two category queries run concurrently.
func (s *service) Search(ctx context.Context, query string) (*SearchResults, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return &SearchResults{}, nil
	}

	results := &SearchResults{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.repo.SearchProjects(ctx, term, searchProjectLimit)
		if err != nil {
			return fmt.Errorf("failed to search projects: %w", err)
		}
		results.Projects = projects
		return nil
	})
	g.Go(func() error {
		issues, err := s.repo.SearchIssues(ctx, term, searchIssueLimit)
		if err != nil {
			return fmt.Errorf("failed to search issues: %w", err)
		}
		results.Issues = issues
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
