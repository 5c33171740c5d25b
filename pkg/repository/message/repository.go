package message

import (
	"context"

	"github.com/amirasaad/urbanbank/pkg/domain/contact"
)

// Repository stores contact form submissions, newest first.
type Repository interface {
	Append(ctx context.Context, m *contact.Message) error
	List(ctx context.Context) ([]contact.Message, error)
}
