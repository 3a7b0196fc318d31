package database

import (
	"context"
	"database/sql"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*ProjectRepo
	*IssueRepo
	*LabelRepo

	db *sql.DB
}

// NewRepository creates a new Repository instance wrapping the given database connection
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ProjectRepo: &ProjectRepo{db: db},
		IssueRepo:   &IssueRepo{db: db},
		LabelRepo:   &LabelRepo{db: db},
		db:          db,
	}
}

// BeginTx starts a transaction on the underlying connection
func (r *Repository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// WithTx returns a Repository whose operations all run inside the given
// transaction. The caller owns commit and rollback.
func (r *Repository) WithTx(tx *sql.Tx) DataStore {
	return &Repository{
		ProjectRepo: r.ProjectRepo.withTx(tx),
		IssueRepo:   r.IssueRepo.withTx(tx),
		LabelRepo:   r.LabelRepo.withTx(tx),
		db:          r.db,
	}
}
