package user

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of User.DateJoined.
const DateLayout = "2006-01-02"

// User is a bank customer and the account they own.
type User struct {
	Username      string
	Email         string
	Password      string
	FullName      string
	AccountNumber string
	RoutingNumber string
	Balance       decimal.Decimal
	// DateJoined is zero when the record carries no join date.
	DateJoined time.Time
}

// MatchesIdentifier reports whether identifier equals the username or the
// email, ignoring case.
func (u *User) MatchesIdentifier(identifier string) bool {
	if identifier == "" {
		return false
	}
	return strings.EqualFold(u.Username, identifier) ||
		(u.Email != "" && strings.EqualFold(u.Email, identifier))
}

// HasJoinDate reports whether the join date is known.
func (u *User) HasJoinDate() bool {
	return !u.DateJoined.IsZero()
}

// AccountAgeDays returns the number of calendar days between the join date
// and now. The second result is false when the join date is unknown.
func (u *User) AccountAgeDays(now time.Time) (int, bool) {
	if !u.HasJoinDate() {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	jy, jm, jd := u.DateJoined.Date()
	joined := time.Date(jy, jm, jd, 0, 0, 0, 0, time.UTC)
	return int(today.Sub(joined).Hours() / 24), true
}

// ParseDate parses a YYYY-MM-DD join date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
