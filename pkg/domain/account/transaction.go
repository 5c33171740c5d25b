package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the storage format of Transaction.Timestamp. Its fixed
// width makes string order equal to chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

// TypeTransfer is the only transaction type the bank produces.
const TypeTransfer = "transfer"

// FlaggedNote explains a transfer held because its recipient did not
// resolve.
const FlaggedNote = "Transaction pending review: potential fraud."

// Status of a recorded transaction.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFlagged   Status = "flagged"
)

// Transaction is an immutable record of a transfer between two users, or
// from a user to an unresolved payee.
type Transaction struct {
	ID            string
	From          string
	To            string
	Amount        decimal.Decimal
	Purpose       string
	Timestamp     time.Time
	Type          string
	Status        Status
	Note          string
	RoutingNumber string
}

// NewTransfer creates a completed transfer record stamped at now, truncated
// to the second.
func NewTransfer(
	from, to string,
	amount decimal.Decimal,
	purpose, routingNumber string,
	now time.Time,
) *Transaction {
	return &Transaction{
		ID:            uuid.NewString(),
		From:          from,
		To:            to,
		Amount:        amount,
		Purpose:       purpose,
		Timestamp:     now.Truncate(time.Second),
		Type:          TypeTransfer,
		Status:        StatusCompleted,
		RoutingNumber: routingNumber,
	}
}

// NewFlaggedTransfer creates a transfer record held for review.
func NewFlaggedTransfer(
	from, to string,
	amount decimal.Decimal,
	purpose, routingNumber string,
	now time.Time,
) *Transaction {
	tx := NewTransfer(from, to, amount, purpose, routingNumber, now)
	tx.Status = StatusFlagged
	tx.Note = FlaggedNote
	return tx
}

// Involves reports whether username sent or received the transaction.
func (t *Transaction) Involves(username string) bool {
	return t.From == username || t.To == username
}

// IsFlagged reports whether the transaction is held for review.
func (t *Transaction) IsFlagged() bool {
	return t.Status == StatusFlagged
}

// FormattedTimestamp renders the timestamp in storage format.
func (t *Transaction) FormattedTimestamp() string {
	return t.Timestamp.Format(TimestampLayout)
}
