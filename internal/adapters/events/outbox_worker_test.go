package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/memory"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type flakyPublisher struct {
	inner    MemoryPublisher
	failType string
}

func (p *flakyPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	if eventType == p.failType {
		return errors.New("broker unavailable")
	}
	return p.inner.Publish(ctx, eventType, payload, partitionKey)
}

func enqueue(t *testing.T, outbox *memory.OutboxRepository, outboxID, eventType, partitionKey string) {
	t.Helper()
	if err := outbox.Enqueue(context.Background(), ports.OutboxRecord{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      []byte(`{"ok":true}`),
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestProcessOncePublishesAndMarks(t *testing.T) {
	t.Parallel()
	outbox := memory.NewRepositories().Outbox
	publisher := &MemoryPublisher{}
	worker := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), outbox, publisher, time.Second, 10)

	enqueue(t, outbox, "rec-1", "contract.fully_signed", "contract-1")
	enqueue(t, outbox, "rec-2", "payment.completed", "payment-1")

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if got := len(publisher.Events); got != 2 {
		t.Fatalf("expected 2 published events, got %d", got)
	}
	if publisher.Events[0].PartitionKey != "contract-1" {
		t.Fatalf("partition key lost: %q", publisher.Events[0].PartitionKey)
	}

	remaining, err := outbox.ListUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("list unpublished: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("published records should be drained, %d left", len(remaining))
	}
}

func TestProcessOnceKeepsFailedForRetry(t *testing.T) {
	t.Parallel()
	outbox := memory.NewRepositories().Outbox
	publisher := &flakyPublisher{failType: "payment.completed"}
	worker := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), outbox, publisher, time.Second, 10)

	enqueue(t, outbox, "rec-1", "contract.fully_signed", "contract-1")
	enqueue(t, outbox, "rec-2", "payment.completed", "payment-1")

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	remaining, err := outbox.ListUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("list unpublished: %v", err)
	}
	if len(remaining) != 1 || remaining[0].OutboxID != "rec-2" {
		t.Fatalf("only the failed record should remain: %+v", remaining)
	}
	if remaining[0].RetryCount != 1 || remaining[0].LastError == nil {
		t.Fatalf("failure bookkeeping missing: %+v", remaining[0])
	}

	// Next sweep retries only the failed record.
	publisher.failType = ""
	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	remaining, err = outbox.ListUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("list unpublished: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("retry should drain the backlog, %d left", len(remaining))
	}
}
