package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Server struct {
	Scheme       string        `envconfig:"SCHEME" default:"http"`
	Host         string        `envconfig:"HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"PORT" default:"5000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[urbanbank]"`
}

// Store selects the persistence backend for the user, transaction and
// message collections.
type Store struct {
	Driver  string `envconfig:"DRIVER" default:"file"`
	DataDir string `envconfig:"DATA_DIR" default:"data"`
}

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
	Cookie string        `envconfig:"COOKIE" default:"session_token"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Session struct {
	Expiration   time.Duration `envconfig:"EXPIRATION" default:"24h"`
	CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Restriction configures the new-account visibility rule.
type Restriction struct {
	NewAccountDays   int             `envconfig:"NEW_ACCOUNT_DAYS" default:"14"`
	BalanceCap       decimal.Decimal `envconfig:"BALANCE_CAP" default:"300"`
	RandomFloor      decimal.Decimal `envconfig:"RANDOM_FLOOR" default:"200"`
	RandomCeil       decimal.Decimal `envconfig:"RANDOM_CEIL" default:"300"`
	RandomizeBalance bool            `envconfig:"RANDOMIZE_BALANCE" default:"false"`
	DashboardRecent  int             `envconfig:"DASHBOARD_RECENT" default:"5"`
}

type Transfer struct {
	SuspenseAccount string `envconfig:"SUSPENSE_ACCOUNT"`
}

type Kafka struct {
	Brokers []string `envconfig:"BROKERS"`
	Topic   string   `envconfig:"TOPIC" default:"bank.transfers"`
	GroupID string   `envconfig:"GROUP_ID" default:"urbanbank-review"`
}

type Events struct {
	Kafka *Kafka `envconfig:"KAFKA"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	Store       *Store       `envconfig:"STORE"`
	DB          *DB          `envconfig:"DATABASE"`
	Auth        *Auth        `envconfig:"AUTH"`
	Session     *Session     `envconfig:"SESSION"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
	Restriction *Restriction `envconfig:"RESTRICTION"`
	Transfer    *Transfer    `envconfig:"TRANSFER"`
	Events      *Events      `envconfig:"EVENTS"`
}
