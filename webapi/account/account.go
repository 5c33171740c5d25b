package account

import (
	"errors"

	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain"
	accountsvc "github.com/amirasaad/urbanbank/pkg/service/account"
	authsvc "github.com/amirasaad/urbanbank/pkg/service/auth"
	transfersvc "github.com/amirasaad/urbanbank/pkg/service/transfer"
	"github.com/amirasaad/urbanbank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidAmount     = "Invalid amount entered."
	msgInsufficientFunds = "Insufficient funds."
	msgTransferDone      = "Transaction successful!"
	msgTransferFlagged   = "Transaction pending: flagged for review. Please contact support."
)

func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	transferSvc *transfersvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	protected := common.Protected(cfg.Auth.Jwt, authSvc)
	app.Get("/dashboard", append(protected, Dashboard(accountSvc, cfg))...)
	app.Get("/send", append(protected, SendPage(accountSvc, cfg))...)
	app.Post("/send", append(protected, Send(transferSvc, cfg))...)
	app.Get("/transactions", append(protected, Transactions(accountSvc, cfg))...)
	app.Get("/account", append(protected, Details(accountSvc, cfg))...)
	app.Get("/account_details", append(protected, Details(accountSvc, cfg))...)
}

// Dashboard renders the balance and the most recent transactions.
func Dashboard(accountSvc *accountsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := accountSvc.Dashboard(c.Context(), common.Ctx(c).Username)
		if err != nil {
			return handleError(c, cfg, err)
		}
		return common.Render(c, "dashboard", fiber.Map{"View": view})
	}
}

// SendPage renders the send-money form.
func SendPage(accountSvc *accountsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := accountSvc.Details(c.Context(), common.Ctx(c).Username)
		if err != nil {
			return handleError(c, cfg, err)
		}
		return common.Render(c, "send", fiber.Map{"View": view})
	}
}

// Send performs a transfer and redirects to the history page.
func Send(transferSvc *transfersvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SendInput](c)
		if err != nil {
			return common.FlashRedirect(c, "/send", common.NoticeWarning, common.ValidationMessage(err))
		}
		amount, err := transfersvc.ParseAmount(input.Amount)
		if err != nil {
			return common.FlashRedirect(c, "/send", common.NoticeWarning, msgInvalidAmount)
		}
		res, err := transferSvc.Transfer(c.Context(), transfersvc.Request{
			Sender:        common.Ctx(c).Username,
			Recipient:     input.Recipient,
			AccountNumber: input.AccountNumber,
			Amount:        amount,
			Purpose:       input.Purpose,
			RoutingNumber: input.RoutingNumber,
		})
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return common.FlashRedirect(c, "/send", common.NoticeWarning, msgInvalidAmount)
		case errors.Is(err, domain.ErrInsufficientFunds):
			return common.FlashRedirect(c, "/send", common.NoticeDanger, msgInsufficientFunds)
		case err != nil:
			return handleError(c, cfg, err)
		case res.Flagged():
			return common.FlashRedirect(c, "/transactions", common.NoticeWarning, msgTransferFlagged)
		default:
			return common.FlashRedirect(c, "/transactions", common.NoticeSuccess, msgTransferDone)
		}
	}
}

// Transactions renders the full visible history.
func Transactions(accountSvc *accountsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := accountSvc.History(c.Context(), common.Ctx(c).Username)
		if err != nil {
			return handleError(c, cfg, err)
		}
		return common.Render(c, "transactions", fiber.Map{"View": view})
	}
}

// Details renders the account profile.
func Details(accountSvc *accountsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := accountSvc.Details(c.Context(), common.Ctx(c).Username)
		if err != nil {
			return handleError(c, cfg, err)
		}
		return common.Render(c, "account", fiber.Map{"View": view})
	}
}

// handleError ends the session when the token names a user that no longer
// exists and hands everything else to the error handler.
func handleError(c *fiber.Ctx, cfg *config.App, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotAuthenticated) {
		if endErr := common.EndSession(c, cfg); endErr != nil {
			return endErr
		}
		return common.FlashRedirect(c, "/login", common.NoticeInfo, "Please log in to continue.")
	}
	return err
}
