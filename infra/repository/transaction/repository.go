package transaction

import (
	"context"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain/account"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
	repotx "github.com/amirasaad/urbanbank/pkg/repository/transaction"
)

type ledger struct {
	store pkgrepo.Store
	now   func() time.Time
}

// New returns a ledger over the transactions collection.
func New(store pkgrepo.Store) repotx.Ledger {
	return &ledger{store: store, now: time.Now}
}

func (l *ledger) Append(ctx context.Context, tx *account.Transaction) error {
	rec := mapDomainToRecord(tx)
	return l.store.Update(ctx, pkgrepo.CollectionTransactions, func(records []pkgrepo.Record) ([]pkgrepo.Record, error) {
		return append([]pkgrepo.Record{rec}, records...), nil
	})
}

func (l *ledger) List(ctx context.Context) ([]account.Transaction, error) {
	return l.filter(ctx, func(account.Transaction) bool { return true })
}

func (l *ledger) ForUser(ctx context.Context, username string) ([]account.Transaction, error) {
	return l.filter(ctx, func(tx account.Transaction) bool {
		return tx.Involves(username)
	})
}

func (l *ledger) filter(
	ctx context.Context,
	keep func(account.Transaction) bool,
) ([]account.Transaction, error) {
	records, err := l.store.Load(ctx, pkgrepo.CollectionTransactions)
	if err != nil {
		return nil, err
	}
	now := l.now()
	txs := make([]account.Transaction, 0, len(records))
	for _, rec := range records {
		if tx := mapRecordToDomain(rec, now); keep(tx) {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}
