package contracts

import (
	"encoding/json"
	"time"
)

// EventEnvelope is the canonical wire shape shared across the platform.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type ContractSentPayload struct {
	ContractID string `json:"contract_id"`
	TenantID   string `json:"tenant_id"`
	SentAt     string `json:"sent_at"`
}

type ContractFullySignedPayload struct {
	ContractID       string `json:"contract_id"`
	PropertyID       string `json:"property_id"`
	LandlordID       string `json:"landlord_id"`
	TenantID         string `json:"tenant_id"`
	LandlordSignedAt string `json:"landlord_signed_at"`
	TenantSignedAt   string `json:"tenant_signed_at"`
}

type ContractRewardAccruedPayload struct {
	ContractID string `json:"contract_id"`
	LandlordID string `json:"landlord_id"`
	TenantID   string `json:"tenant_id"`
	AccruedAt  string `json:"accrued_at"`
}

type ContractClosedPayload struct {
	ContractID string `json:"contract_id"`
	PropertyID string `json:"property_id"`
	Reason     string `json:"reason"`
	ClosedAt   string `json:"closed_at"`
}

type ContractActivatedPayload struct {
	ContractID  string `json:"contract_id"`
	PropertyID  string `json:"property_id"`
	ActivatedAt string `json:"activated_at"`
}

type PaymentCompletedPayload struct {
	PaymentID        string `json:"payment_id"`
	ContractID       string `json:"contract_id"`
	PayerID          string `json:"payer_id"`
	PaymentType      string `json:"payment_type"`
	AmountCents      int64  `json:"amount_cents"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	NetAmountCents   int64  `json:"net_amount_cents"`
	Method           string `json:"method"`
	PaidAt           string `json:"paid_at"`
}

type PaymentRefundedPayload struct {
	PaymentID  string `json:"payment_id"`
	ContractID string `json:"contract_id"`
	AmountCents int64 `json:"amount_cents"`
	RefundedAt string `json:"refunded_at"`
}

type KeysScheduledPayload struct {
	CollectionID string `json:"collection_id"`
	ContractID   string `json:"contract_id"`
	ScheduledAt  string `json:"scheduled_at"`
	Location     string `json:"location"`
}

type KeysCompletedPayload struct {
	CollectionID string `json:"collection_id"`
	ContractID   string `json:"contract_id"`
	CompletedAt  string `json:"completed_at"`
}
