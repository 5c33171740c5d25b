package webapi_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/urbanbank/infra/eventbus"
	inframsg "github.com/amirasaad/urbanbank/infra/repository/message"
	infratx "github.com/amirasaad/urbanbank/infra/repository/transaction"
	infrauser "github.com/amirasaad/urbanbank/infra/repository/user"
	"github.com/amirasaad/urbanbank/infra/store"
	"github.com/amirasaad/urbanbank/pkg/app"
	"github.com/amirasaad/urbanbank/pkg/config"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
	"github.com/amirasaad/urbanbank/pkg/utils"
	"github.com/amirasaad/urbanbank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// browser replays cookies between requests the way a real client would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("request %s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return b.do(req)
}

type WebAPITestSuite struct {
	suite.Suite
	store *store.MemoryStore
	deps  *app.Deps
	app   *fiber.App
}

func hash(s *suite.Suite, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return string(h)
}

func (s *WebAPITestSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	newbieJoined := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
	s.store.SetRaw(pkgrepo.CollectionUsers, []byte(`[
	  {"username": "jdoe", "email": "john.doe@example.com", "password": "`+hash(&s.Suite, "password123")+`",
	   "fullname": "Johnathan Doe", "account_number": 483920174, "routing_number": "021000021",
	   "balance": 1000, "date_joined": "2023-06-01"},
	  {"username": "asimmons", "password": "`+hash(&s.Suite, "mysecurepass")+`", "fullname": "Alicia Simmons",
	   "account_number": "602348291", "routing_number": "111000614", "balance": 500, "date_joined": "2023-01-10"},
	  {"username": "newbie", "password": "`+hash(&s.Suite, "fresh")+`", "fullname": "Nina Newbie",
	   "account_number": "222222222", "balance": 5000, "date_joined": "`+newbieJoined+`"},
	  {"username": "legacy", "password": "plain-old", "fullname": "Lee Gacy", "account_number": "333333333",
	   "balance": 10}
	]`))
	s.store.SetRaw(pkgrepo.CollectionTransactions, []byte(`[
	  {"from": "asimmons", "to": "newbie", "amount": 42, "timestamp": "2024-01-01 10:00:00"},
	  {"from": "jdoe", "to": "asimmons", "amount": 7, "timestamp": "2022-12-31 10:00:00"}
	]`))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.deps = &app.Deps{
		Store:    s.store,
		Users:    infrauser.New(s.store),
		Ledger:   infratx.New(s.store),
		Messages: inframsg.New(s.store),
		EventBus: infraeventbus.NewWithMemory(logger),
		Logger:   logger,
	}
	cfg := &config.App{
		Env:       "test",
		Server:    &config.Server{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour, Cookie: "session_token"}},
		Session:   &config.Session{Expiration: time.Hour},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Restriction: &config.Restriction{
			NewAccountDays:  14,
			BalanceCap:      decimal.NewFromInt(300),
			RandomFloor:     decimal.NewFromInt(200),
			RandomCeil:      decimal.NewFromInt(300),
			DashboardRecent: 5,
		},
		Transfer: &config.Transfer{},
	}
	s.app = webapi.SetupApp(app.New(s.deps, cfg))
}

func (s *WebAPITestSuite) browser() *browser {
	return &browser{t: s.T(), app: s.app, cookies: map[string]*http.Cookie{}}
}

func (s *WebAPITestSuite) login(b *browser, identity, password string) {
	resp, _ := b.post("/login", url.Values{"username": {identity}, "password": {password}})
	s.Require().Equal(fiber.StatusSeeOther, resp.StatusCode)
	s.Require().Equal("/dashboard", resp.Header.Get("Location"))
}

func (s *WebAPITestSuite) TestHealthz() {
	resp, body := s.browser().get("/healthz")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal("ok", body)
}

func (s *WebAPITestSuite) TestPublicPages() {
	b := s.browser()
	for _, path := range []string{"/", "/login", "/about", "/contact"} {
		resp, _ := b.get(path)
		s.Equal(fiber.StatusOK, resp.StatusCode, path)
	}
}

func (s *WebAPITestSuite) TestProtectedPagesRedirectToLogin() {
	b := s.browser()
	for _, path := range []string{"/dashboard", "/send", "/transactions", "/account", "/account_details"} {
		resp, _ := b.get(path)
		s.Equal(fiber.StatusSeeOther, resp.StatusCode, path)
		s.Equal("/login", resp.Header.Get("Location"), path)
	}
	_, body := b.get("/login")
	s.Contains(body, "Please log in to continue.")
}

func (s *WebAPITestSuite) TestLoginFailure() {
	b := s.browser()
	resp, body := b.post("/login", url.Values{"username": {"jdoe"}, "password": {"wrong"}})
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(body, "Invalid username or password")
	s.NotContains(b.cookies, "session_token")

	_, unknown := b.post("/login", url.Values{"username": {"ghost"}, "password": {"wrong"}})
	s.Contains(unknown, "Invalid username or password")
}

func (s *WebAPITestSuite) TestLoginByEmailAndDashboard() {
	b := s.browser()
	s.login(b, "John.Doe@Example.com", "password123")
	s.Contains(b.cookies, "session_token")
	s.True(b.cookies["session_token"].HttpOnly)

	resp, body := b.get("/dashboard")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(body, "Login successful!")
	s.Contains(body, "Johnathan Doe")
	s.Contains(body, "$1,000.00")
	// 2022 predates the 2023 join year
	s.Contains(body, "No transactions yet.")

	// notices are shown once
	_, again := b.get("/dashboard")
	s.NotContains(again, "Login successful!")
}

func (s *WebAPITestSuite) TestLoginPageSkippedWhenLoggedIn() {
	b := s.browser()
	s.login(b, "jdoe", "password123")
	for _, path := range []string{"/", "/login"} {
		resp, _ := b.get(path)
		s.Equal(fiber.StatusSeeOther, resp.StatusCode, path)
		s.Equal("/dashboard", resp.Header.Get("Location"), path)
	}
}

func (s *WebAPITestSuite) TestLegacyPasswordUpgradedOnLogin() {
	b := s.browser()
	s.login(b, "legacy", "plain-old")

	records, err := s.store.Load(s.T().Context(), pkgrepo.CollectionUsers)
	s.Require().NoError(err)
	stored, _ := records[3]["password"].(string)
	s.True(utils.IsHashed(stored))
}

func (s *WebAPITestSuite) TestSendMoney() {
	b := s.browser()
	s.login(b, "jdoe", "password123")

	resp, _ := b.post("/send", url.Values{
		"recipient": {"asimmons"}, "amount": {"100"}, "purpose": {"lunch"}, "routing_number": {"111000614"},
	})
	s.Equal(fiber.StatusSeeOther, resp.StatusCode)
	s.Equal("/transactions", resp.Header.Get("Location"))

	_, body := b.get("/transactions")
	s.Contains(body, "Transaction successful!")
	s.Contains(body, "-$100.00")
	s.Contains(body, "lunch")

	_, account := b.get("/account")
	s.Contains(account, "$900.00")
	_, details := b.get("/account_details")
	s.Contains(details, "483920174")
}

func (s *WebAPITestSuite) TestSendByAccountNumber() {
	b := s.browser()
	s.login(b, "jdoe", "password123")

	b.post("/send", url.Values{"account_number": {"602348291"}, "amount": {"25.50"}})
	_, body := b.get("/transactions")
	s.Contains(body, "Transaction successful!")

	u, err := s.deps.Users.FindByUsername(s.T().Context(), "asimmons")
	s.Require().NoError(err)
	s.True(u.Balance.Equal(decimal.RequireFromString("525.5")))
}

func (s *WebAPITestSuite) TestSendRejections() {
	b := s.browser()
	s.login(b, "jdoe", "password123")

	testCases := []struct {
		desc   string
		form   url.Values
		notice string
	}{
		{"not a number", url.Values{"recipient": {"asimmons"}, "amount": {"abc"}}, "Invalid amount entered."},
		{"zero", url.Values{"recipient": {"asimmons"}, "amount": {"0"}}, "Invalid amount entered."},
		{"negative", url.Values{"recipient": {"asimmons"}, "amount": {"-10"}}, "Invalid amount entered."},
		{"too much", url.Values{"recipient": {"asimmons"}, "amount": {"1000.01"}}, "Insufficient funds."},
		{"no recipient", url.Values{"amount": {"1"}}, "Recipient is required."},
	}
	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp, _ := b.post("/send", tc.form)
			s.Equal(fiber.StatusSeeOther, resp.StatusCode)
			s.Equal("/send", resp.Header.Get("Location"))
			_, body := b.get("/send")
			s.Contains(body, tc.notice)
		})
	}

	u, err := s.deps.Users.FindByUsername(s.T().Context(), "jdoe")
	s.Require().NoError(err)
	s.True(u.Balance.Equal(decimal.NewFromInt(1000)))
}

func (s *WebAPITestSuite) TestSendToUnknownIsFlagged() {
	b := s.browser()
	s.login(b, "jdoe", "password123")

	b.post("/send", url.Values{"recipient": {"Mystery Person"}, "amount": {"40"}})
	_, body := b.get("/transactions")
	s.Contains(body, "flagged for review")
	s.Contains(body, "Mystery Person")
	s.Contains(body, "Transaction pending review: potential fraud.")

	u, err := s.deps.Users.FindByUsername(s.T().Context(), "jdoe")
	s.Require().NoError(err)
	s.True(u.Balance.Equal(decimal.NewFromInt(960)))
}

func (s *WebAPITestSuite) TestNewAccountHistoryHidden() {
	b := s.browser()
	s.login(b, "newbie", "fresh")

	_, dashboard := b.get("/dashboard")
	s.Contains(dashboard, "becomes available")
	s.NotContains(dashboard, "$42.00")
	s.Contains(dashboard, "$5,000.00")

	_, history := b.get("/transactions")
	s.Contains(history, "becomes available")
	s.NotContains(history, "$42.00")
}

func (s *WebAPITestSuite) TestContact() {
	b := s.browser()

	resp, _ := b.post("/contact", url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "message": {"Hello"}})
	s.Equal(fiber.StatusSeeOther, resp.StatusCode)
	s.Equal("/contact", resp.Header.Get("Location"))
	_, body := b.get("/contact")
	s.Contains(body, "Message sent!")

	msgs, err := s.deps.Messages.List(s.T().Context())
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal("Jane", msgs[0].Name)

	b.post("/contact", url.Values{"name": {"Jane"}, "email": {"not-an-email"}, "message": {"Hi"}})
	_, invalid := b.get("/contact")
	s.Contains(invalid, "Email must be a valid email address.")
	msgs, _ = s.deps.Messages.List(s.T().Context())
	s.Len(msgs, 1)
}

func (s *WebAPITestSuite) TestLogout() {
	b := s.browser()
	s.login(b, "jdoe", "password123")

	resp, _ := b.get("/logout")
	s.Equal(fiber.StatusSeeOther, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))
	s.NotContains(b.cookies, "session_token")

	resp, _ = b.get("/dashboard")
	s.Equal(fiber.StatusSeeOther, resp.StatusCode)
}

func (s *WebAPITestSuite) TestDeletedUserSessionEnds() {
	b := s.browser()
	s.login(b, "asimmons", "mysecurepass")
	s.Require().NoError(s.store.Save(s.T().Context(), pkgrepo.CollectionUsers, []pkgrepo.Record{}))

	resp, _ := b.get("/dashboard")
	s.Equal(fiber.StatusSeeOther, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))
	s.NotContains(b.cookies, "session_token")
}

func (s *WebAPITestSuite) TestUnknownRoute() {
	resp, _ := s.browser().get("/nope")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestWebAPITestSuite(t *testing.T) {
	suite.Run(t, new(WebAPITestSuite))
}
