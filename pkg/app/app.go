package app

import (
	"log/slog"
	"math/rand/v2"

	"github.com/amirasaad/urbanbank/pkg/config"
	domainaccount "github.com/amirasaad/urbanbank/pkg/domain/account"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/amirasaad/urbanbank/pkg/repository"
	"github.com/amirasaad/urbanbank/pkg/repository/message"
	"github.com/amirasaad/urbanbank/pkg/repository/transaction"
	"github.com/amirasaad/urbanbank/pkg/repository/user"
	"github.com/amirasaad/urbanbank/pkg/service/account"
	"github.com/amirasaad/urbanbank/pkg/service/auth"
	"github.com/amirasaad/urbanbank/pkg/service/contact"
	"github.com/amirasaad/urbanbank/pkg/service/transfer"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Store    repository.Store
	Users    user.Repository
	Ledger   transaction.Ledger
	Messages message.Repository
	EventBus eventbus.Bus
	Logger   *slog.Logger
}

type App struct {
	Deps            *Deps
	Config          *config.App
	AuthService     *auth.Service
	TransferService *transfer.Service
	AccountService  *account.Service
	ContactService  *contact.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	app.AuthService = auth.New(deps.Users, cfg.Auth.Jwt, deps.Logger)

	var transferOpts []transfer.Option
	if cfg.Transfer != nil && cfg.Transfer.SuspenseAccount != "" {
		transferOpts = append(transferOpts, transfer.WithSuspenseAccount(cfg.Transfer.SuspenseAccount))
	}
	app.TransferService = transfer.New(deps.Users, deps.Ledger, deps.EventBus, deps.Logger, transferOpts...)

	policy := VisibilityPolicy(cfg.Restriction)
	var accountOpts []account.Option
	if cfg.Restriction != nil && cfg.Restriction.RandomizeBalance {
		accountOpts = append(accountOpts, account.WithRandomizedBalance(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))))
	}
	app.AccountService = account.New(deps.Users, deps.Ledger, policy, deps.Logger, accountOpts...)

	app.ContactService = contact.New(deps.Messages, deps.Logger)
	return app
}

// VisibilityPolicy builds the new-account policy from configuration,
// falling back to the defaults when cfg is nil.
func VisibilityPolicy(cfg *config.Restriction) domainaccount.VisibilityPolicy {
	if cfg == nil {
		return domainaccount.DefaultVisibilityPolicy()
	}
	return domainaccount.VisibilityPolicy{
		NewAccountDays: cfg.NewAccountDays,
		BalanceCap:     cfg.BalanceCap,
		RandomFloor:    cfg.RandomFloor,
		RandomCeil:     cfg.RandomCeil,
		Recent:         cfg.DashboardRecent,
	}
}
