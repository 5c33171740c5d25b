package user

import (
	"strings"

	"github.com/amirasaad/urbanbank/infra/repository"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
)

// Record keys of a stored user.
const (
	keyUsername      = "username"
	keyEmail         = "email"
	keyPassword      = "password"
	keyFullName      = "fullname"
	keyAccountNumber = "account_number"
	keyRoutingNumber = "routing_number"
	keyBalance       = "balance"
	keyDateJoined    = "date_joined"
)

func mapRecordToDomain(rec pkgrepo.Record) *user.User {
	u := &user.User{
		Username:      repository.String(rec[keyUsername]),
		Email:         repository.String(rec[keyEmail]),
		Password:      repository.String(rec[keyPassword]),
		FullName:      repository.String(rec[keyFullName]),
		AccountNumber: strings.TrimSpace(repository.String(rec[keyAccountNumber])),
		RoutingNumber: repository.String(rec[keyRoutingNumber]),
		Balance:       repository.Decimal(rec[keyBalance]),
	}
	if joined, err := user.ParseDate(repository.String(rec[keyDateJoined])); err == nil {
		u.DateJoined = joined
	}
	return u
}

// mapDomainToRecord writes every known field of u into rec. Keys the domain
// does not know about are left untouched.
func mapDomainToRecord(u *user.User, rec pkgrepo.Record) pkgrepo.Record {
	if rec == nil {
		rec = pkgrepo.Record{}
	}
	rec[keyUsername] = u.Username
	rec[keyPassword] = u.Password
	rec[keyFullName] = u.FullName
	rec[keyAccountNumber] = u.AccountNumber
	rec[keyRoutingNumber] = u.RoutingNumber
	rec[keyBalance] = repository.Number(u.Balance)
	if u.Email != "" {
		rec[keyEmail] = u.Email
	}
	if u.HasJoinDate() {
		rec[keyDateJoined] = u.DateJoined.Format(user.DateLayout)
	}
	return rec
}
