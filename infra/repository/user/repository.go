package user

import (
	"context"
	"strings"

	"github.com/amirasaad/urbanbank/infra/repository"
	"github.com/amirasaad/urbanbank/pkg/domain"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
	repouser "github.com/amirasaad/urbanbank/pkg/repository/user"
	"github.com/shopspring/decimal"
)

// userRepository implements the user repository over the users collection.
type userRepository struct {
	store pkgrepo.Store
}

func New(store pkgrepo.Store) repouser.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) find(
	ctx context.Context,
	match func(u *user.User) bool,
) (*user.User, error) {
	records, err := r.store.Load(ctx, pkgrepo.CollectionUsers)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if u := mapRecordToDomain(rec); match(u) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) FindByIdentifier(
	ctx context.Context,
	identifier string,
) (*user.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(ctx, func(u *user.User) bool {
		return u.MatchesIdentifier(identifier)
	})
}

func (r *userRepository) FindByUsername(
	ctx context.Context,
	username string,
) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(ctx, func(u *user.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (r *userRepository) FindByAccountNumber(
	ctx context.Context,
	number string,
) (*user.User, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(ctx, func(u *user.User) bool {
		return u.AccountNumber == number
	})
}

// indexOf returns the position of username in records, or -1.
func indexOf(records []pkgrepo.Record, username string) int {
	for i, rec := range records {
		if strings.EqualFold(repository.String(rec[keyUsername]), username) {
			return i
		}
	}
	return -1
}

// mutate applies fn to the stored record of username in a single write.
func (r *userRepository) mutate(
	ctx context.Context,
	username string,
	fn func(rec pkgrepo.Record),
) error {
	return r.store.Update(ctx, pkgrepo.CollectionUsers, func(records []pkgrepo.Record) ([]pkgrepo.Record, error) {
		i := indexOf(records, username)
		if i < 0 {
			return nil, domain.ErrUserNotFound
		}
		fn(records[i])
		return records, nil
	})
}

func (r *userRepository) AdjustBalance(
	ctx context.Context,
	username string,
	delta decimal.Decimal,
) error {
	return r.ApplyBalanceChanges(ctx, repouser.BalanceChange{Username: username, Delta: delta})
}

func (r *userRepository) ApplyBalanceChanges(
	ctx context.Context,
	changes ...repouser.BalanceChange,
) error {
	if len(changes) == 0 {
		return nil
	}
	return r.store.Update(ctx, pkgrepo.CollectionUsers, func(records []pkgrepo.Record) ([]pkgrepo.Record, error) {
		for _, change := range changes {
			if indexOf(records, change.Username) < 0 {
				return nil, domain.ErrUserNotFound
			}
		}
		for _, change := range changes {
			rec := records[indexOf(records, change.Username)]
			balance := repository.Decimal(rec[keyBalance]).Add(change.Delta)
			rec[keyBalance] = repository.Number(balance)
		}
		return records, nil
	})
}

func (r *userRepository) SetBalance(
	ctx context.Context,
	username string,
	balance decimal.Decimal,
) error {
	return r.mutate(ctx, username, func(rec pkgrepo.Record) {
		rec[keyBalance] = repository.Number(balance)
	})
}

func (r *userRepository) UpdatePassword(
	ctx context.Context,
	username, password string,
) error {
	return r.mutate(ctx, username, func(rec pkgrepo.Record) {
		rec[keyPassword] = password
	})
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	records, err := r.store.Load(ctx, pkgrepo.CollectionUsers)
	if err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(records))
	for _, rec := range records {
		users = append(users, mapRecordToDomain(rec))
	}
	return users, nil
}

func (r *userRepository) Upsert(ctx context.Context, u *user.User) error {
	return r.store.Update(ctx, pkgrepo.CollectionUsers, func(records []pkgrepo.Record) ([]pkgrepo.Record, error) {
		if i := indexOf(records, u.Username); i >= 0 {
			records[i] = mapDomainToRecord(u, records[i])
			return records, nil
		}
		return append(records, mapDomainToRecord(u, nil)), nil
	})
}
