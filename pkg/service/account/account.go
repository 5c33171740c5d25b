package account

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain/account"
	"github.com/amirasaad/urbanbank/pkg/domain/money"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/amirasaad/urbanbank/pkg/repository/transaction"
	repouser "github.com/amirasaad/urbanbank/pkg/repository/user"
)

// Entry is a transaction as seen by one of its parties.
type Entry struct {
	account.Transaction
	// Outgoing is true when the viewer sent the money.
	Outgoing bool
	// Counterparty is the other side: a username, or the free-text payee
	// of a flagged transfer.
	Counterparty    string
	FormattedAmount string
	When            string
	Flagged         bool
}

type Dashboard struct {
	User             *user.User
	FormattedBalance string
	Recent           []Entry
	// Restricted is true while the account is inside the new-account
	// window and its history is hidden.
	Restricted bool
}

type History struct {
	User         *user.User
	Transactions []Entry
	Restricted   bool
}

type Details struct {
	User             *user.User
	FormattedBalance string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to age accounts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandomizedBalance enables overwriting the stored balance of a
// restricted account above the policy cap with a random amount each time
// its dashboard is viewed.
func WithRandomizedBalance(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// Service builds the account pages.
type Service struct {
	users  repouser.Repository
	ledger transaction.Ledger
	policy account.VisibilityPolicy
	now    func() time.Time
	rngMu  sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

func New(
	users repouser.Repository,
	ledger transaction.Ledger,
	policy account.VisibilityPolicy,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:  users,
		ledger: ledger,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns the balance and the most recent visible transactions.
func (s *Service) Dashboard(ctx context.Context, username string) (*Dashboard, error) {
	log := s.logger.With("context", "Dashboard", "username", username)
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		log.Error("User lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	now := s.now()

	if s.policy.IsRestricted(u, now) {
		if err := s.maybeResetBalance(ctx, log, u, now); err != nil {
			return nil, err
		}
		return &Dashboard{
			User:             u,
			FormattedBalance: money.FormatUSD(u.Balance),
			Recent:           []Entry{},
			Restricted:       true,
		}, nil
	}

	txs, err := s.ledger.ForUser(ctx, u.Username)
	if err != nil {
		log.Error("Ledger read failed", "error", err)
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return &Dashboard{
		User:             u,
		FormattedBalance: money.FormatUSD(u.Balance),
		Recent:           entries(u.Username, s.policy.RecentHistory(u, txs, now)),
	}, nil
}

// History returns every transaction the user may see, newest first.
func (s *Service) History(ctx context.Context, username string) (*History, error) {
	log := s.logger.With("context", "History", "username", username)
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		log.Error("User lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	now := s.now()
	if s.policy.IsRestricted(u, now) {
		return &History{User: u, Transactions: []Entry{}, Restricted: true}, nil
	}
	txs, err := s.ledger.ForUser(ctx, u.Username)
	if err != nil {
		log.Error("Ledger read failed", "error", err)
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return &History{User: u, Transactions: entries(u.Username, s.policy.VisibleHistory(u, txs, now))}, nil
}

// Details returns the profile with a display-formatted balance.
func (s *Service) Details(ctx context.Context, username string) (*Details, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Error("User lookup failed", "context", "Details", "username", username, "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &Details{User: u, FormattedBalance: money.FormatUSD(u.Balance)}, nil
}

func (s *Service) maybeResetBalance(
	ctx context.Context,
	log *slog.Logger,
	u *user.User,
	now time.Time,
) error {
	if s.rng == nil || !s.policy.NeedsBalanceReset(u, now) {
		return nil
	}
	s.rngMu.Lock()
	balance := s.policy.RandomBalance(s.rng)
	s.rngMu.Unlock()

	if err := s.users.SetBalance(ctx, u.Username, balance); err != nil {
		log.Error("Balance reset failed", "error", err)
		return fmt.Errorf("reset balance: %w", err)
	}
	log.Warn("Restricted account balance reset", "from", u.Balance.String(), "to", balance.String())
	u.Balance = balance
	return nil
}

func entries(viewer string, txs []account.Transaction) []Entry {
	out := make([]Entry, 0, len(txs))
	for _, tx := range txs {
		e := Entry{
			Transaction:     tx,
			Outgoing:        tx.From == viewer,
			FormattedAmount: money.FormatUSD(tx.Amount),
			When:            tx.FormattedTimestamp(),
			Flagged:         tx.IsFlagged(),
		}
		if e.Outgoing {
			e.Counterparty = tx.To
		} else {
			e.Counterparty = tx.From
		}
		out = append(out, e)
	}
	return out
}
