// NextHub is a project and issue tracker. This binary is a thin
// command-line consumer of the core services; all invariants live in
// the service and database layers.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/thenoetrevino/nexthub/internal/config"
	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/events"
	"github.com/thenoetrevino/nexthub/internal/logging"
	"github.com/thenoetrevino/nexthub/internal/models"
	"github.com/thenoetrevino/nexthub/internal/services/issue"
	"github.com/thenoetrevino/nexthub/internal/services/label"
	"github.com/thenoetrevino/nexthub/internal/services/project"
	"github.com/thenoetrevino/nexthub/internal/services/query"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; environment variables win over config values
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	bus := events.NewBus()
	defer bus.Close()

	app := &cli{
		projects: project.NewService(repo, bus),
		issues:   issue.NewService(repo, bus),
		labels:   label.NewService(repo, bus),
		queries:  query.NewService(repo),
	}

	args := os.Args[1:]
	if len(args) == 0 {
		return app.dashboard(ctx)
	}

	switch args[0] {
	case "dashboard":
		return app.dashboard(ctx)
	case "projects":
		return app.listProjects(ctx)
	case "project":
		if len(args) < 2 {
			return fmt.Errorf("usage: nexthub project <slug>")
		}
		return app.projectDetail(ctx, args[1])
	case "issue":
		if len(args) < 3 {
			return fmt.Errorf("usage: nexthub issue <project-slug> <number>")
		}
		number, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid issue number %q", args[2])
		}
		return app.issueDetail(ctx, args[1], number)
	case "labels":
		return app.listLabels(ctx)
	case "search":
		return app.search(ctx, strings.Join(args[1:], " "))
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// cli bundles the services behind the command handlers
type cli struct {
	projects project.Service
	issues   issue.Service
	labels   label.Service
	queries  query.Service
}

func (c *cli) dashboard(ctx context.Context) error {
	summary, err := c.queries.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Issues: %d total", summary.TotalIssues)
	for _, status := range models.IssueStatuses {
		fmt.Printf(", %d %s", summary.StatusCounts[status], status.Label())
	}
	fmt.Println()

	fmt.Println("\nRecent projects:")
	for _, p := range summary.Projects {
		fmt.Printf("  %-30s %3d issues  (%s)\n", p.Name, p.IssueCount, p.Slug)
	}

	fmt.Println("\nRecent issues:")
	for _, i := range summary.RecentIssues {
		fmt.Printf("  [%s] %s #%d %s\n", i.Status.Label(), i.Project.Name, i.Number, i.Title)
	}
	return nil
}

func (c *cli) listProjects(ctx context.Context) error {
	projects, err := c.projects.List(ctx)
	if err != nil {
		return err
	}

	for _, p := range projects {
		fmt.Printf("%-30s %3d issues  (%s)\n", p.Name, p.IssueCount, p.Slug)
	}
	return nil
}

func (c *cli) projectDetail(ctx context.Context, slug string) error {
	detail, err := c.queries.ProjectDetail(ctx, slug)
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("project %q not found", slug)
	}

	fmt.Printf("%s (%s)\n", detail.Name, detail.Slug)
	if detail.Description != "" {
		fmt.Println(detail.Description)
	}
	fmt.Printf("%d issues\n\n", detail.IssueCount)

	for _, i := range detail.Issues {
		fmt.Printf("  #%-4d [%s/%s] %s", i.Number, i.Status.Label(), i.Priority.Label(), i.Title)
		if len(i.Labels) > 0 {
			var names []string
			for _, l := range i.Labels {
				names = append(names, l.Name)
			}
			fmt.Printf("  {%s}", strings.Join(names, ", "))
		}
		fmt.Println()
	}
	return nil
}

func (c *cli) issueDetail(ctx context.Context, slug string, number int) error {
	detail, err := c.issues.Get(ctx, slug, number)
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("issue %s#%d not found", slug, number)
	}

	fmt.Printf("%s #%d: %s\n", detail.Project.Name, detail.Number, detail.Title)
	fmt.Printf("Status: %s  Priority: %s\n", detail.Status.Label(), detail.Priority.Label())
	for _, l := range detail.Labels {
		fmt.Printf("Label: %s %s\n", l.Name, l.Color)
	}
	if detail.Description != "" {
		fmt.Printf("\n%s\n", detail.Description)
	}
	return nil
}

func (c *cli) listLabels(ctx context.Context) error {
	labels, err := c.labels.List(ctx)
	if err != nil {
		return err
	}

	for _, l := range labels {
		fmt.Printf("%-20s %s  %d issues\n", l.Name, l.Color, l.IssueCount)
	}
	return nil
}

func (c *cli) search(ctx context.Context, queryStr string) error {
	results, err := c.queries.Search(ctx, queryStr)
	if err != nil {
		return err
	}

	fmt.Printf("Projects (%d):\n", len(results.Projects))
	for _, p := range results.Projects {
		fmt.Printf("  %s (%s)\n", p.Name, p.Slug)
	}

	fmt.Printf("Issues (%d):\n", len(results.Issues))
	for _, i := range results.Issues {
		fmt.Printf("  %s #%d %s\n", i.Project.Name, i.Number, i.Title)
	}
	return nil
}
