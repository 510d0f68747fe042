package ports

import (
	"context"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

// ChargeIntent is the processor-side handle for a card charge. The client
// secret goes back to the caller so the charge can be completed off-path.
type ChargeIntent struct {
	ID           string
	ClientSecret string
}

// ChargeMetadata is echoed back verbatim in the asynchronous success
// callback and drives reconciliation when the reference lookup misses.
type ChargeMetadata struct {
	ContractID       string `json:"contract_id"`
	PayerID          string `json:"payer_id"`
	PaymentType      string `json:"payment_type"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	NetAmountCents   int64  `json:"net_amount_cents"`
}

type PaymentProcessor interface {
	CreateChargeIntent(ctx context.Context, amountCents int64, currency string, metadata ChargeMetadata) (ChargeIntent, error)
}

type ObjectStorage interface {
	// Put stores a blob and returns a retrievable URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type DocumentRenderInput struct {
	Contract  domain.Contract
	Checklist *domain.Checklist
}

// DocumentGenerator renders the canonical agreement with both signature
// images embedded. Render failures are logged and never fail the
// originating transaction.
type DocumentGenerator interface {
	Render(ctx context.Context, input DocumentRenderInput) (string, error)
}

type NotificationDispatcher interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// CommissionStore exposes the process-wide platform commission percent.
// It is read fresh at every intent creation; the split written into a
// Payment row is frozen there and never re-read.
type CommissionStore interface {
	CommissionPercent(ctx context.Context) (int64, error)
	SetCommissionPercent(ctx context.Context, percent int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
