package message

import (
	"context"

	"github.com/amirasaad/urbanbank/infra/repository"
	"github.com/amirasaad/urbanbank/pkg/domain/account"
	"github.com/amirasaad/urbanbank/pkg/domain/contact"
	pkgrepo "github.com/amirasaad/urbanbank/pkg/repository"
	repomsg "github.com/amirasaad/urbanbank/pkg/repository/message"
)

type messageRepository struct {
	store pkgrepo.Store
}

// New returns a repository over the messages collection.
func New(store pkgrepo.Store) repomsg.Repository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Append(ctx context.Context, m *contact.Message) error {
	rec := pkgrepo.Record{
		"name":      m.Name,
		"email":     m.Email,
		"message":   m.Message,
		"timestamp": m.Timestamp.Format(account.TimestampLayout),
	}
	return r.store.Update(ctx, pkgrepo.CollectionMessages, func(records []pkgrepo.Record) ([]pkgrepo.Record, error) {
		return append([]pkgrepo.Record{rec}, records...), nil
	})
}

func (r *messageRepository) List(ctx context.Context) ([]contact.Message, error) {
	records, err := r.store.Load(ctx, pkgrepo.CollectionMessages)
	if err != nil {
		return nil, err
	}
	messages := make([]contact.Message, 0, len(records))
	for _, rec := range records {
		ts, _ := repository.Time(rec["timestamp"], account.TimestampLayout)
		messages = append(messages, contact.Message{
			Name:      repository.String(rec["name"]),
			Email:     repository.String(rec["email"]),
			Message:   repository.String(rec["message"]),
			Timestamp: ts,
		})
	}
	return messages, nil
}
