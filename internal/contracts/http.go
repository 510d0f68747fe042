package contracts

import "time"

type CreateContractRequest struct {
	PropertyID           string    `json:"property_id"`
	LandlordID           string    `json:"landlord_id"`
	TenantID             string    `json:"tenant_id"`
	ApplicationID        string    `json:"application_id,omitempty"`
	LeaseStart           time.Time `json:"lease_start"`
	LeaseEnd             time.Time `json:"lease_end"`
	MonthlyRentCents     int64     `json:"monthly_rent_cents"`
	SecurityDepositCents int64     `json:"security_deposit_cents"`
	Currency             string    `json:"currency,omitempty"`
	Terms                string    `json:"terms,omitempty"`
	SpecialConditions    string    `json:"special_conditions,omitempty"`
	SendNow              bool      `json:"send_now,omitempty"`
}

type SignContractRequest struct {
	SignatureImage string `json:"signature_image"`
}

type TerminateContractRequest struct {
	TerminationDate time.Time `json:"termination_date"`
	Reason          string    `json:"reason,omitempty"`
}

type CreatePaymentIntentRequest struct {
	PaymentType string `json:"payment_type"`
}

type CreatePaymentIntentResponse struct {
	PaymentID        string `json:"payment_id"`
	ProcessorRef     string `json:"processor_ref"`
	ClientSecret     string `json:"client_secret"`
	AmountCents      int64  `json:"amount_cents"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	NetAmountCents   int64  `json:"net_amount_cents"`
	Currency         string `json:"currency"`
}

type ConfirmPaymentRequest struct {
	ProcessorRef string `json:"processor_ref"`
}

type ManualPaymentRequest struct {
	PaymentType string `json:"payment_type"`
	Method      string `json:"method"`
	Reference   string `json:"reference,omitempty"`
}

// ProcessorCallbackRequest is the inbound asynchronous success report from
// the payment gateway, keyed by intent id with the charge metadata echoed
// back.
type ProcessorCallbackRequest struct {
	IntentID         string `json:"intent_id"`
	Status           string `json:"status"`
	ContractID       string `json:"contract_id"`
	PayerID          string `json:"payer_id"`
	PaymentType      string `json:"payment_type"`
	AmountCents      int64  `json:"amount_cents"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	NetAmountCents   int64  `json:"net_amount_cents"`
}

type AttachChecklistRequest struct {
	TemplateID string `json:"template_id"`
}

type ChecklistItemUpdate struct {
	Room      string   `json:"room"`
	Item      string   `json:"item"`
	Condition string   `json:"condition"`
	Notes     string   `json:"notes,omitempty"`
	PhotoURLs []string `json:"photo_urls,omitempty"`
}

type TenantSignChecklistRequest struct {
	Items          []ChecklistItemUpdate `json:"items"`
	SignatureImage string                `json:"signature_image"`
}

type CompleteChecklistRequest struct {
	SignatureImage string `json:"signature_image"`
	Notes          string `json:"notes,omitempty"`
}

type RescheduleKeyCollectionRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
}

type SetCommissionRequest struct {
	Percent int64 `json:"percent"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
