// Package main provides a tool to seed the database with starter data:
// the default label set and a sample project with a few issues.
//
// Usage:
//
//	NEXTHUB_DB_PATH=~/.nexthub/nexthub.db go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/thenoetrevino/nexthub/internal/config"
	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/services/issue"
	"github.com/thenoetrevino/nexthub/internal/services/label"
	"github.com/thenoetrevino/nexthub/internal/services/project"
	"github.com/thenoetrevino/nexthub/internal/validation"
)

var seedLabels = []validation.LabelForm{
	{Name: "bug", Color: "#d73a4a"},
	{Name: "feature", Color: "#0075ca"},
	{Name: "enhancement", Color: "#a2eeef"},
	{Name: "documentation", Color: "#0075ca"},
	{Name: "good first issue", Color: "#7057ff"},
	{Name: "help wanted", Color: "#008672"},
	{Name: "wontfix", Color: "#ffffff"},
	{Name: "duplicate", Color: "#cfd3d7"},
}

var seedIssues = []validation.IssueForm{
	{
		Title:       "Set up project scaffolding",
		Description: "Initialize the module layout, database schema, and migrations",
		Status:      "closed",
		Priority:    "high",
	},
	{
		Title:       "Add project CRUD operations",
		Description: "Implement create, read, update, delete for projects",
		Status:      "open",
		Priority:    "high",
	},
	{
		Title:       "Add issue tracking",
		Description: "Implement issue management within projects",
		Status:      "open",
		Priority:    "medium",
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	fmt.Printf("Opening database at: %s\n", cfg.Database.Path)
	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	labels := label.NewService(repo, nil)
	projects := project.NewService(repo, nil)
	issues := issue.NewService(repo, nil)

	created := 0
	for _, form := range seedLabels {
		if _, err := labels.Create(ctx, form); err != nil {
			if errors.Is(err, label.ErrLabelExists) {
				continue
			}
			log.Fatalf("Failed to create label %q: %v", form.Name, err)
		}
		created++
	}
	fmt.Printf("Created %d labels\n", created)

	p, err := projects.Create(ctx, validation.ProjectForm{
		Name:        "NextHub",
		Description: "The NextHub project tracker itself",
	})
	if err != nil {
		if !errors.Is(err, project.ErrProjectExists) {
			log.Fatalf("Failed to create project: %v", err)
		}
		fmt.Println("Sample project already exists, skipping issues")
		return
	}
	fmt.Printf("Created project: %s\n", p.Name)

	for _, form := range seedIssues {
		if _, err := issues.Create(ctx, p.Slug, form); err != nil {
			log.Fatalf("Failed to create issue %q: %v", form.Title, err)
		}
	}
	fmt.Printf("Created %d issues\n", len(seedIssues))
}
