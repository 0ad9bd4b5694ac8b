package ports

import (
	"context"

	"zone-matrix-service/internal/domain"
)

// LedgerStore persists the spend ledger for paid matrix runs.
type LedgerStore interface {
	// Load returns the full ledger, or an empty one when nothing was recorded yet.
	Load(ctx context.Context) (*domain.Ledger, error)
	// Append records one completed run.
	Append(ctx context.Context, entry domain.LedgerEntry) error
}
