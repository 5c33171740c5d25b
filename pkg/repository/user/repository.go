package user

import (
	"context"

	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/shopspring/decimal"
)

// BalanceChange is a signed delta applied to one user's balance.
type BalanceChange struct {
	Username string
	Delta    decimal.Decimal
}

// Repository defines user data access. Lookups return
// domain.ErrUserNotFound when nothing matches.
type Repository interface {
	// FindByIdentifier matches username or email, ignoring case.
	FindByIdentifier(ctx context.Context, identifier string) (*user.User, error)

	// FindByUsername matches the username, ignoring case.
	FindByUsername(ctx context.Context, username string) (*user.User, error)

	// FindByAccountNumber matches the account number after normalising both
	// sides to strings.
	FindByAccountNumber(ctx context.Context, number string) (*user.User, error)

	// AdjustBalance adds a signed delta to the stored balance.
	AdjustBalance(ctx context.Context, username string, delta decimal.Decimal) error

	// ApplyBalanceChanges applies several deltas in one write. Either all
	// users exist and every change is applied, or nothing is written.
	ApplyBalanceChanges(ctx context.Context, changes ...BalanceChange) error

	// SetBalance overwrites the stored balance.
	SetBalance(ctx context.Context, username string, balance decimal.Decimal) error

	// UpdatePassword replaces the stored credential.
	UpdatePassword(ctx context.Context, username, password string) error

	// List returns all users in stored order.
	List(ctx context.Context) ([]*user.User, error)

	// Upsert inserts u or replaces the user with the same username.
	Upsert(ctx context.Context, u *user.User) error
}
