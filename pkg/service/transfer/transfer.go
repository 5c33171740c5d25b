package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain"
	"github.com/amirasaad/urbanbank/pkg/domain/account"
	"github.com/amirasaad/urbanbank/pkg/domain/events"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/amirasaad/urbanbank/pkg/repository/transaction"
	repouser "github.com/amirasaad/urbanbank/pkg/repository/user"
	"github.com/shopspring/decimal"
)

// Request is a transfer submitted by an authenticated sender. Recipient is
// free text matched as a username or email. AccountNumber is tried when
// Recipient matches nobody; when it is empty Recipient is tried as an
// account number instead.
type Request struct {
	Sender        string
	Recipient     string
	AccountNumber string
	Amount        decimal.Decimal
	Purpose       string
	RoutingNumber string
}

// Result describes a transfer that was recorded.
type Result struct {
	Transaction *account.Transaction
	// Recipient is nil when the transfer was flagged.
	Recipient *user.User
}

// Flagged reports whether the transfer was held for review.
func (r *Result) Flagged() bool {
	return r.Transaction.IsFlagged()
}

// Option configures a Service.
type Option func(*Service)

// WithSuspenseAccount credits flagged funds to username instead of
// dropping them.
func WithSuspenseAccount(username string) Option {
	return func(s *Service) { s.suspense = strings.TrimSpace(username) }
}

// WithClock overrides the time source used for ledger timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service moves money between users. Transfers are serialised in-process
// so a balance check and the debit that follows cannot interleave with
// another transfer. Events are published outside that critical section.
type Service struct {
	mu       sync.Mutex
	users    repouser.Repository
	ledger   transaction.Ledger
	bus      eventbus.Bus
	suspense string
	now      func() time.Time
	logger   *slog.Logger
}

func New(
	users repouser.Repository,
	ledger transaction.Ledger,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:  users,
		ledger: ledger,
		bus:    bus,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseAmount parses a form amount. Anything that is not a positive number
// is ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

// Transfer debits the sender and either credits a resolved recipient or,
// when the recipient matches nobody, records the transfer as flagged.
func (s *Service) Transfer(ctx context.Context, req Request) (*Result, error) {
	log := s.logger.With("context", "Transfer", "sender", req.Sender, "amount", req.Amount.String())
	log.Debug("Transfer called", "recipient", req.Recipient)

	if !req.Amount.IsPositive() {
		log.Warn("Transfer rejected", "error", domain.ErrInvalidAmount)
		return nil, domain.ErrInvalidAmount
	}

	res, event, err := s.transfer(ctx, log, req)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, log, event)
	return res, nil
}

// transfer moves the balances and writes the ledger entry under the
// service lock. The event is published by the caller once the lock is
// released.
func (s *Service) transfer(
	ctx context.Context,
	log *slog.Logger,
	req Request,
) (*Result, eventbus.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, err := s.users.FindByUsername(ctx, req.Sender)
	if err != nil {
		log.Error("Sender lookup failed", "error", err)
		return nil, nil, fmt.Errorf("find sender: %w", err)
	}
	if req.Amount.GreaterThan(sender.Balance) {
		log.Warn("Transfer rejected", "error", domain.ErrInsufficientFunds, "balance", sender.Balance.String())
		return nil, nil, domain.ErrInsufficientFunds
	}

	recipient, err := s.resolveRecipient(ctx, req)
	if err != nil {
		log.Error("Recipient lookup failed", "error", err)
		return nil, nil, fmt.Errorf("find recipient: %w", err)
	}

	if recipient == nil {
		return s.flag(ctx, log, sender, req)
	}
	return s.complete(ctx, log, sender, recipient, req)
}

// resolveRecipient tries identifier first, then account number. It returns
// nil without error when nothing matches.
func (s *Service) resolveRecipient(ctx context.Context, req Request) (*user.User, error) {
	u, err := s.users.FindByIdentifier(ctx, req.Recipient)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	number := strings.TrimSpace(req.AccountNumber)
	if number == "" {
		number = req.Recipient
	}
	u, err = s.users.FindByAccountNumber(ctx, number)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *Service) complete(
	ctx context.Context,
	log *slog.Logger,
	sender, recipient *user.User,
	req Request,
) (*Result, eventbus.Event, error) {
	if err := s.users.ApplyBalanceChanges(ctx,
		repouser.BalanceChange{Username: sender.Username, Delta: req.Amount.Neg()},
		repouser.BalanceChange{Username: recipient.Username, Delta: req.Amount},
	); err != nil {
		log.Error("Balance update failed", "error", err)
		return nil, nil, fmt.Errorf("update balances: %w", err)
	}

	tx := account.NewTransfer(sender.Username, recipient.Username, req.Amount, req.Purpose, req.RoutingNumber, s.now())
	if err := s.ledger.Append(ctx, tx); err != nil {
		log.Error("Ledger append failed after balances moved", "error", err, "transaction_id", tx.ID)
		return nil, nil, fmt.Errorf("append transaction: %w", err)
	}
	log.Info("Transfer completed", "recipient", recipient.Username, "transaction_id", tx.ID)

	return &Result{Transaction: tx, Recipient: recipient}, events.TransferCompleted{
		TransactionID: tx.ID,
		From:          tx.From,
		To:            tx.To,
		Amount:        tx.Amount,
		OccurredAt:    tx.Timestamp,
	}, nil
}

func (s *Service) flag(
	ctx context.Context,
	log *slog.Logger,
	sender *user.User,
	req Request,
) (*Result, eventbus.Event, error) {
	changes := []repouser.BalanceChange{{Username: sender.Username, Delta: req.Amount.Neg()}}
	heldBy := s.suspenseHolder(ctx, log)
	if heldBy != "" {
		changes = append(changes, repouser.BalanceChange{Username: heldBy, Delta: req.Amount})
	}
	if err := s.users.ApplyBalanceChanges(ctx, changes...); err != nil {
		log.Error("Balance update failed", "error", err)
		return nil, nil, fmt.Errorf("update balances: %w", err)
	}

	payee := strings.TrimSpace(req.Recipient)
	if payee == "" {
		payee = strings.TrimSpace(req.AccountNumber)
	}
	tx := account.NewFlaggedTransfer(sender.Username, payee, req.Amount, req.Purpose, req.RoutingNumber, s.now())
	if err := s.ledger.Append(ctx, tx); err != nil {
		log.Error("Ledger append failed after balances moved", "error", err, "transaction_id", tx.ID)
		return nil, nil, fmt.Errorf("append transaction: %w", err)
	}
	log.Warn("Transfer flagged", "payee", payee, "held_by", heldBy, "transaction_id", tx.ID)

	return &Result{Transaction: tx}, events.TransferFlagged{
		TransactionID: tx.ID,
		From:          tx.From,
		Payee:         payee,
		Amount:        tx.Amount,
		HeldBy:        heldBy,
		Note:          tx.Note,
		OccurredAt:    tx.Timestamp,
	}, nil
}

// suspenseHolder returns the username of the configured suspense account,
// or "" when none is configured or it does not exist.
func (s *Service) suspenseHolder(ctx context.Context, log *slog.Logger) string {
	if s.suspense == "" {
		return ""
	}
	u, err := s.users.FindByUsername(ctx, s.suspense)
	if err != nil {
		log.Warn("Suspense account unavailable, flagged funds are not held", "suspense", s.suspense, "error", err)
		return ""
	}
	return u.Username
}

func (s *Service) emit(ctx context.Context, log *slog.Logger, event eventbus.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		log.Error("Event publish failed", "type", event.Type(), "error", err)
	}
}
