package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/urbanbank/infra/eventbus"
	"github.com/amirasaad/urbanbank/pkg/domain/events"
	pkgeventbus "github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunSmokeTest publishes a flagged transfer through the Kafka event bus and
// reads it back with a fresh consumer group, verifying a local broker end
// to end.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9093,localhost:9092"
	}
	topic := strings.TrimSpace(os.Getenv("TOPIC"))
	if topic == "" {
		topic = "bank.transfers.smoketest"
	}
	brokerList := strings.Split(brokers, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bus := eventbus.NewWithKafka(brokerList, topic, logger)
	defer func() { _ = bus.Close() }()

	sent := events.TransferFlagged{
		TransactionID: uuid.NewString(),
		From:          "smoketest",
		Payee:         "unknown-payee",
		Amount:        decimal.RequireFromString("1.23"),
		Note:          "smoke test",
		OccurredAt:    time.Now(),
	}
	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "topic", topic, "transaction_id", sent.TransactionID)

	consumer := eventbus.NewKafkaConsumer(brokerList, topic, "smoketest-"+uuid.NewString(), logger)
	defer func() { _ = consumer.Close() }()

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()
	found := false
	err := consumer.Consume(readCtx, func(_ context.Context, e pkgeventbus.Event) error {
		if f, ok := e.(events.TransferFlagged); ok && f.TransactionID == sent.TransactionID {
			found = true
			cancelRead()
		}
		return nil
	})
	if err != nil {
		logger.Error("consume failed", "error", err)
		return err
	}
	if !found {
		return errors.New("published event was not consumed before the deadline")
	}
	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
