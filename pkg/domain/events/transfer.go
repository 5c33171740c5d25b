package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeTransferCompleted = "transfer.completed"
	EventTypeTransferFlagged   = "transfer.flagged"
)

// TransferCompleted is emitted after both balances moved and the ledger
// entry was written.
type TransferCompleted struct {
	TransactionID string          `json:"transaction_id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (TransferCompleted) Type() string { return EventTypeTransferCompleted }

// TransferFlagged is emitted when a transfer was held because its
// recipient did not resolve. HeldBy names the suspense account that
// received the funds, if any.
type TransferFlagged struct {
	TransactionID string          `json:"transaction_id"`
	From          string          `json:"from"`
	Payee         string          `json:"payee"`
	Amount        decimal.Decimal `json:"amount"`
	HeldBy        string          `json:"held_by,omitempty"`
	Note          string          `json:"note"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (TransferFlagged) Type() string { return EventTypeTransferFlagged }
