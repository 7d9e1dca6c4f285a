// Package store persists extraction results. Two backends implement the same
// interface: Postgres for shared deployments, SQLite for single-analyst use.
package store

import (
	"context"

	"github.com/dxpulse/plct-cli/internal/model"
)

// Counts summarizes the stored corpus.
type Counts struct {
	Companies   int64 `json:"companies"`
	Initiatives int64 `json:"initiatives"`
}

// Store defines the persistence interface for the extraction pipeline.
// PersistExtraction is transactional per document: every company extracted
// from one source file commits together with all of its initiatives, or
// nothing does. A partially persisted document would collide with the run
// ledger's retry and append duplicate initiatives.
type Store interface {
	PersistExtraction(ctx context.Context, rows []model.CompanyRow, sourceFile string) error

	GetCompany(ctx context.Context, name string) (*model.CompanyRow, error)
	ListCompanies(ctx context.Context) ([]model.CompanyRow, error)
	ListInitiatives(ctx context.Context, companyID int64) ([]model.InitiativeRow, error)
	GetCounts(ctx context.Context) (*Counts, error)

	Migrate(ctx context.Context) error
	Close() error
}
