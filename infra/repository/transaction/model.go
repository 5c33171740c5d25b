package transaction

import (
	"time"

	"github.com/amirasaad/urbanbank/infra/repository"
	"github.com/amirasaad/urbanbank/pkg/domain/account"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
)

// mapRecordToDomain fills defaults for missing fields: type "transfer",
// status "completed" and a timestamp of now.
func mapRecordToDomain(rec pkgrepo.Record, now time.Time) account.Transaction {
	ts, ok := repository.Time(rec["timestamp"], account.TimestampLayout)
	if !ok {
		ts = now.Truncate(time.Second)
	}
	return account.Transaction{
		ID:            repository.String(rec["id"]),
		From:          repository.String(rec["from"]),
		To:            repository.String(rec["to"]),
		Amount:        repository.Decimal(rec["amount"]),
		Purpose:       repository.String(rec["purpose"]),
		Timestamp:     ts,
		Type:          repository.StringOr(rec["type"], account.TypeTransfer),
		Status:        account.Status(repository.StringOr(rec["status"], string(account.StatusCompleted))),
		Note:          repository.String(rec["note"]),
		RoutingNumber: repository.String(rec["routing_number"]),
	}
}

func mapDomainToRecord(tx *account.Transaction) pkgrepo.Record {
	rec := pkgrepo.Record{
		"id":             tx.ID,
		"from":           tx.From,
		"to":             tx.To,
		"amount":         repository.Number(tx.Amount),
		"purpose":        tx.Purpose,
		"timestamp":      tx.FormattedTimestamp(),
		"type":           tx.Type,
		"status":         string(tx.Status),
		"routing_number": tx.RoutingNumber,
	}
	if tx.Note != "" {
		rec["note"] = tx.Note
	}
	return rec
}
