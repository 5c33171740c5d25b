package fixtures

import (
	"context"

	"github.com/amirasaad/urbanbank/pkg/domain/account"
	"github.com/amirasaad/urbanbank/pkg/domain/contact"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
	repouser "github.com/amirasaad/urbanbank/pkg/repository/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	args := m.Called(ctx, identifier)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByAccountNumber(ctx context.Context, number string) (*user.User, error) {
	args := m.Called(ctx, number)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, username string, delta decimal.Decimal) error {
	args := m.Called(ctx, username, delta)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyBalanceChanges(ctx context.Context, changes ...repouser.BalanceChange) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *MockUserRepository) SetBalance(ctx context.Context, username string, balance decimal.Decimal) error {
	args := m.Called(ctx, username, balance)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*user.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Append(ctx context.Context, tx *account.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedger) List(ctx context.Context) ([]account.Transaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]account.Transaction)
	return txs, args.Error(1)
}

func (m *MockLedger) ForUser(ctx context.Context, username string) ([]account.Transaction, error) {
	args := m.Called(ctx, username)
	txs, _ := args.Get(0).([]account.Transaction)
	return txs, args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Append(ctx context.Context, msg *contact.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) List(ctx context.Context) ([]contact.Message, error) {
	args := m.Called(ctx)
	msgs, _ := args.Get(0).([]contact.Message)
	return msgs, args.Error(1)
}

type MockBus struct {
	mock.Mock
}

func (m *MockBus) Emit(ctx context.Context, event eventbus.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
