package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/urbanbank/infra/repository/message"
	"github.com/amirasaad/urbanbank/infra/store"
	"github.com/amirasaad/urbanbank/pkg/domain/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_AppendNewestFirst(t *testing.T) {
	repo := message.New(store.NewMemoryStore())
	ctx := context.Background()
	now := time.Date(2024, 7, 1, 9, 30, 0, 0, time.Local)

	require.NoError(t, repo.Append(ctx, contact.NewMessage("Ana", "ana@example.com", "hello", now)))
	require.NoError(t, repo.Append(ctx, contact.NewMessage("Ben", "ben@example.com", "<script>", now.Add(time.Hour))))

	msgs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Ben", msgs[0].Name)
	assert.Equal(t, "<script>", msgs[0].Message)
	assert.Equal(t, "Ana", msgs[1].Name)
	assert.True(t, msgs[1].Timestamp.Equal(now))
}
