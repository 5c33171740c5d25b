package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain/contact"
	"github.com/amirasaad/urbanbank/pkg/repository/message"
)

var ErrEmptyMessage = errors.New("message must not be empty")

type Service struct {
	messages message.Repository
	now      func() time.Time
	logger   *slog.Logger
}

func New(messages message.Repository, logger *slog.Logger) *Service {
	return &Service{messages: messages, now: time.Now, logger: logger}
}

// Submit stores a contact form submission.
func (s *Service) Submit(ctx context.Context, name, email, body string) (*contact.Message, error) {
	log := s.logger.With("context", "Submit", "email", email)
	body = strings.TrimSpace(body)
	if body == "" {
		log.Warn("Contact message rejected", "error", ErrEmptyMessage)
		return nil, ErrEmptyMessage
	}
	m := contact.NewMessage(strings.TrimSpace(name), strings.TrimSpace(email), body, s.now())
	if err := s.messages.Append(ctx, m); err != nil {
		log.Error("Contact message not stored", "error", err)
		return nil, fmt.Errorf("append message: %w", err)
	}
	log.Info("Contact message stored")
	return m, nil
}

// List returns stored messages, newest first.
func (s *Service) List(ctx context.Context) ([]contact.Message, error) {
	return s.messages.List(ctx)
}
