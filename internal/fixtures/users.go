package fixtures

import (
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/shopspring/decimal"
)

// User returns a minimal user with the given balance and no join date.
func User(username string, balance decimal.Decimal) *user.User {
	return &user.User{
		Username:      username,
		Email:         username + "@example.com",
		FullName:      username,
		AccountNumber: "100000000",
		RoutingNumber: "021000021",
		Balance:       balance,
	}
}
