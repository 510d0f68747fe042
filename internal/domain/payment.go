package domain

import "time"

type PaymentType string

type PaymentStatus string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeRent    PaymentType = "rent"

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment is one escrow obligation charged against a contract. The fee
// split is frozen into the row at intent creation so a later commission
// change never rewrites history.
type Payment struct {
	PaymentID  string      `json:"payment_id"`
	ContractID string      `json:"contract_id"`
	PayerID    string      `json:"payer_id"`
	Type       PaymentType `json:"type"`

	AmountCents      int64  `json:"amount_cents"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	NetAmountCents   int64  `json:"net_amount_cents"`
	Currency         string `json:"currency"`

	Status       PaymentStatus `json:"status"`
	ProcessorRef string        `json:"processor_ref,omitempty"`
	Method       string        `json:"method,omitempty"`

	DueAt      *time.Time `json:"due_at,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidPaymentType(t PaymentType) bool {
	return t == PaymentTypeDeposit || t == PaymentTypeRent
}
