package account

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/shopspring/decimal"
)

// VisibilityPolicy restricts what young accounts may see.
//
// Accounts younger than NewAccountDays see no transaction history. Older
// accounts, and accounts with no join date, see transactions from their
// join year onwards, newest first.
type VisibilityPolicy struct {
	NewAccountDays int
	BalanceCap     decimal.Decimal
	RandomFloor    decimal.Decimal
	RandomCeil     decimal.Decimal
	Recent         int
}

// DefaultVisibilityPolicy mirrors the production thresholds.
func DefaultVisibilityPolicy() VisibilityPolicy {
	return VisibilityPolicy{
		NewAccountDays: 14,
		BalanceCap:     decimal.NewFromInt(300),
		RandomFloor:    decimal.NewFromInt(200),
		RandomCeil:     decimal.NewFromInt(300),
		Recent:         5,
	}
}

// IsRestricted reports whether u is still inside the new-account window.
func (p VisibilityPolicy) IsRestricted(u *user.User, now time.Time) bool {
	days, ok := u.AccountAgeDays(now)
	return ok && days < p.NewAccountDays
}

// VisibleHistory filters txs down to what u may see, sorted newest first.
// txs is not modified.
func (p VisibilityPolicy) VisibleHistory(
	u *user.User,
	txs []Transaction,
	now time.Time,
) []Transaction {
	if p.IsRestricted(u, now) {
		return []Transaction{}
	}
	visible := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if u.HasJoinDate() && tx.Timestamp.Year() < u.DateJoined.Year() {
			continue
		}
		visible = append(visible, tx)
	}
	slices.SortStableFunc(visible, func(a, b Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return visible
}

// RecentHistory returns at most Recent entries of VisibleHistory.
func (p VisibilityPolicy) RecentHistory(
	u *user.User,
	txs []Transaction,
	now time.Time,
) []Transaction {
	visible := p.VisibleHistory(u, txs, now)
	if p.Recent >= 0 && len(visible) > p.Recent {
		visible = visible[:p.Recent]
	}
	return visible
}

// NeedsBalanceReset reports whether viewing the dashboard would overwrite
// u's balance under the randomisation rule.
func (p VisibilityPolicy) NeedsBalanceReset(u *user.User, now time.Time) bool {
	return p.IsRestricted(u, now) && u.Balance.GreaterThan(p.BalanceCap)
}

// RandomBalance draws a balance in [RandomFloor, RandomCeil] with cent
// precision.
func (p VisibilityPolicy) RandomBalance(r *rand.Rand) decimal.Decimal {
	floor := p.RandomFloor.Shift(2).IntPart()
	ceil := p.RandomCeil.Shift(2).IntPart()
	if ceil <= floor {
		return p.RandomFloor
	}
	return decimal.New(floor+r.Int64N(ceil-floor+1), -2)
}
