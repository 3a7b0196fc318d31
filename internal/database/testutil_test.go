package database

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/thenoetrevino/nexthub/internal/models"
	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database and runs migrations.
// This is the unified test database setup used by all tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// A second pool connection would see its own empty in-memory database
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// setupTestDBFile creates a file-based database for testing persistence across restarts
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "nexthub-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	db, err := sql.Open("sqlite", tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db, tmpfile.Name()
}

// closeAndReopenDB simulates an app restart by closing and reopening the database
func closeAndReopenDB(t *testing.T, db *sql.DB, dbPath string) *sql.DB {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	newDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	newDB.SetMaxOpenConns(1)

	_, err = newDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	return newDB
}

// createTestProject creates a project and returns it
func createTestProject(t *testing.T, repo *Repository, name, slug string) *models.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), name, slug, "")
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return p
}

// createTestIssue creates an issue with the project's next number and returns it
func createTestIssue(t *testing.T, repo *Repository, projectID, title string) *models.Issue {
	t.Helper()
	ctx := context.Background()
	number, err := repo.NextIssueNumber(ctx, projectID)
	if err != nil {
		t.Fatalf("Failed to get next issue number: %v", err)
	}
	i, err := repo.CreateIssue(ctx, projectID, number, title, "",
		models.DefaultStatus, models.DefaultPriority)
	if err != nil {
		t.Fatalf("Failed to create test issue: %v", err)
	}
	return i
}

// createTestLabel creates a label and returns it
func createTestLabel(t *testing.T, repo *Repository, name, color string) *models.Label {
	t.Helper()
	l, err := repo.CreateLabel(context.Background(), name, color)
	if err != nil {
		t.Fatalf("Failed to create test label: %v", err)
	}
	return l
}
