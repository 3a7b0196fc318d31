package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/thenoetrevino/nexthub/internal/database"
	"github.com/thenoetrevino/nexthub/internal/events"
	"github.com/thenoetrevino/nexthub/internal/models"
	"github.com/thenoetrevino/nexthub/internal/validation"
)

// setupTestRepo creates a repository backed by a throwaway database file
func setupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	db, err := database.InitDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return database.NewRepository(db)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), validation.ProjectForm{
		Name:        "My Awesome Project",
		Description: "A description",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.Slug != "my-awesome-project" {
		t.Errorf("Expected derived slug 'my-awesome-project', got %q", p.Slug)
	}
	if p.Name != "My Awesome Project" {
		t.Errorf("Expected name to pass through, got %q", p.Name)
	}
	if p.ID == "" {
		t.Error("Expected project ID to be set")
	}
}

func TestCreate_TrimsName(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), validation.ProjectForm{Name: "  Padded  "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.Name != "Padded" {
		t.Errorf("Expected trimmed name 'Padded', got %q", p.Name)
	}
	if p.Slug != "padded" {
		t.Errorf("Expected slug 'padded', got %q", p.Slug)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), validation.ProjectForm{Name: ""})
	if err == nil {
		t.Fatal("Expected validation error for empty name")
	}

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected FieldErrors, got %T: %v", err, err)
	}
	if fieldErrs["name"][0] != "Name is required" {
		t.Errorf("Expected 'Name is required', got %v", fieldErrs)
	}
}

func TestCreate_SlugCollision(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validation.ProjectForm{Name: "My Project"}); err != nil {
		t.Fatalf("Failed to create first project: %v", err)
	}

	// "My  Project" slugifies to the same "my-project"
	_, err := svc.Create(ctx, validation.ProjectForm{Name: "My  Project"})
	if !errors.Is(err, ErrProjectExists) {
		t.Errorf("Expected ErrProjectExists, got %v", err)
	}
}

func TestCreate_PublishesInvalidation(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	bus := events.NewBus()
	defer bus.Close()
	ch := bus.Subscribe()

	svc := NewService(repo, bus)

	p, err := svc.Create(context.Background(), validation.ProjectForm{Name: "My Project"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	event := <-ch
	views := map[events.View]bool{}
	for _, v := range event.Views {
		views[v] = true
	}
	for _, want := range []events.View{events.ViewProjects, events.ViewDashboard, events.ViewProject(p.Slug)} {
		if !views[want] {
			t.Errorf("Expected view %q in event, got %v", want, event.Views)
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validation.ProjectForm{Name: "My Project"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	p, err := svc.Get(ctx, "my-project")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p == nil || p.ID != created.ID {
		t.Errorf("Expected project %s, got %+v", created.ID, p)
	}
}

func TestGet_UnknownSlug(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	// Absence is not an error
	p, err := svc.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p != nil {
		t.Errorf("Expected nil for unknown slug, got %+v", p)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validation.ProjectForm{Name: "One"}); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	if _, err := svc.Create(ctx, validation.ProjectForm{Name: "Two"}); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	projects, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("Expected 2 projects, got %d", len(projects))
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validation.ProjectForm{Name: "Old Name"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, validation.ProjectForm{
		Name:        "New Name",
		Description: "now described",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The slug follows the new name
	if updated.Slug != "new-name" {
		t.Errorf("Expected re-derived slug 'new-name', got %q", updated.Slug)
	}
	if updated.Description != "now described" {
		t.Errorf("Expected updated description, got %q", updated.Description)
	}

	// The old slug no longer resolves
	p, err := svc.Get(ctx, "old-name")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p != nil {
		t.Error("Expected old slug to stop resolving")
	}
}

func TestUpdate_KeepsOwnSlug(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validation.ProjectForm{Name: "My Project"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	// Updating without renaming must not trip the collision check
	updated, err := svc.Update(ctx, created.ID, validation.ProjectForm{
		Name:        "My Project",
		Description: "just a new description",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Slug != "my-project" {
		t.Errorf("Expected slug to stay 'my-project', got %q", updated.Slug)
	}
}

func TestUpdate_SlugCollision(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validation.ProjectForm{Name: "First"}); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	second, err := svc.Create(ctx, validation.ProjectForm{Name: "Second"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	_, err = svc.Update(ctx, second.ID, validation.ProjectForm{Name: "First"})
	if !errors.Is(err, ErrProjectExists) {
		t.Errorf("Expected ErrProjectExists, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	_, err := svc.Update(context.Background(), "missing", validation.ProjectForm{Name: "Name"})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}

	_, err = svc.Update(context.Background(), "", validation.ProjectForm{Name: "Name"})
	if !errors.Is(err, ErrInvalidProjectID) {
		t.Errorf("Expected ErrInvalidProjectID, got %v", err)
	}
}

func TestDelete_Cascade(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validation.ProjectForm{Name: "Doomed"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	issue, err := repo.CreateIssue(ctx, created.ID, 1, "Doomed issue", "",
		models.StatusOpen, models.PriorityMedium)
	if err != nil {
		t.Fatalf("Failed to create issue: %v", err)
	}
	label, err := repo.CreateLabel(ctx, "bug", "#d73a4a")
	if err != nil {
		t.Fatalf("Failed to create label: %v", err)
	}
	if err := repo.AddIssueLabel(ctx, issue.ID, label.ID); err != nil {
		t.Fatalf("Failed to attach label: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Project and its issues are gone, the label definition survives
	p, err := svc.Get(ctx, "doomed")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p != nil {
		t.Error("Expected project to be deleted")
	}

	_, err = repo.GetIssueByID(ctx, issue.ID)
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected issue to be deleted, got %v", err)
	}

	if _, err := repo.GetLabelByID(ctx, label.ID); err != nil {
		t.Errorf("Expected label to survive, got %v", err)
	}

	labels, err := repo.GetLabelsForIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Failed to query join rows: %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("Expected no orphaned join rows, got %d", len(labels))
	}
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}

	err = svc.Delete(context.Background(), "")
	if !errors.Is(err, ErrInvalidProjectID) {
		t.Errorf("Expected ErrInvalidProjectID, got %v", err)
	}
}
