package transaction

import (
	"context"

	"github.com/amirasaad/urbanbank/pkg/domain/account"
)

// Ledger is the append-only transaction log. New records are prepended, so
// stored order is newest first.
type Ledger interface {
	Append(ctx context.Context, tx *account.Transaction) error
	List(ctx context.Context) ([]account.Transaction, error)
	// ForUser returns the records the user sent or received.
	ForUser(ctx context.Context, username string) ([]account.Transaction, error)
}
