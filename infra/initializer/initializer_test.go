package initializer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/urbanbank/infra/eventbus"
	"github.com/amirasaad/urbanbank/infra/store"
	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain/events"
	"github.com/amirasaad/urbanbank/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.App {
	return &config.App{
		Env:   "test",
		Log:   &config.Log{Format: "text", TimeFormat: time.RFC3339, Prefix: "[test]"},
		Store: &config.Store{Driver: "file", DataDir: dir},
		DB:    &config.DB{},
		Auth:  &config.Auth{Jwt: &config.Jwt{Secret: "s", Expiry: time.Hour}},
	}
}

func TestInitialize_FileStore(t *testing.T) {
	dir := t.TempDir()
	deps, cleanup, err := InitializeWithLogger(testConfig(dir), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	assert.IsType(t, &store.FileStore{}, deps.Store)
	assert.IsType(t, &infraeventbus.MemoryEventBus{}, deps.EventBus)
	for _, c := range repository.Collections {
		records, err := deps.Store.Load(context.Background(), c)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.FileExists(t, dir+"/"+c+".json")
	}
}

func TestInitialize_UnknownDriver(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Store.Driver = "mongo"
	_, _, err := InitializeWithLogger(cfg, slog.Default())
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestInitialize_PostgresWithoutURL(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Store.Driver = "postgres"
	_, _, err := InitializeWithLogger(cfg, slog.Default())
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestMemoryBusLogsFlaggedTransfers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	bus, closer := newEventBus(&config.Events{}, logger)
	assert.Nil(t, closer)

	require.NoError(t, bus.Emit(context.Background(), events.TransferFlagged{
		TransactionID: "tx-9",
		From:          "jdoe",
		Payee:         "stranger",
		Amount:        decimal.NewFromInt(40),
	}))
	assert.Contains(t, buf.String(), "Transfer held for review")
	assert.Contains(t, buf.String(), "payee=stranger")

	memBus, ok := bus.(*infraeventbus.MemoryEventBus)
	require.True(t, ok)
	assert.Empty(t, memBus.Published())
}

func TestKafkaBusSelectedWithBrokers(t *testing.T) {
	bus, closer := newEventBus(&config.Events{Kafka: &config.Kafka{Brokers: []string{"localhost:9092"}, Topic: "t"}}, slog.Default())
	assert.IsType(t, &infraeventbus.KafkaEventBus{}, bus)
	require.NotNil(t, closer)
	assert.NoError(t, closer())
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Log{Format: "json", TimeFormat: time.RFC3339, Prefix: "[test]"}, &buf)
	logger.Info("hello", "username", "jdoe")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"username":"jdoe"`)
}
