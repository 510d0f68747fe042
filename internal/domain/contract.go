package domain

import "time"

type ContractStatus string

const (
	ContractStatusDraft        ContractStatus = "draft"
	ContractStatusSentToTenant ContractStatus = "sent_to_tenant"
	ContractStatusTenantSigned ContractStatus = "tenant_signed"
	ContractStatusFullySigned  ContractStatus = "fully_signed"
	ContractStatusActive       ContractStatus = "active"
	ContractStatusExpired      ContractStatus = "expired"
	ContractStatusTerminated   ContractStatus = "terminated"
)

type PartyRole string

const (
	PartyRoleLandlord PartyRole = "landlord"
	PartyRoleTenant   PartyRole = "tenant"
)

// Signature is one captured signature slot: the base64-encoded image as
// submitted plus the capture timestamp. An optional storage URL is filled
// in when the object store accepted the upload.
type Signature struct {
	Image    string    `json:"image"`
	ImageURL string    `json:"image_url,omitempty"`
	SignedAt time.Time `json:"signed_at"`
}

// Settlement records how an escrow obligation was satisfied on the
// contract side (card via processor, cash, bank transfer).
type Settlement struct {
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
}

type Contract struct {
	ContractID    string `json:"contract_id"`
	PropertyID    string `json:"property_id"`
	LandlordID    string `json:"landlord_id"`
	TenantID      string `json:"tenant_id"`
	ApplicationID string `json:"application_id,omitempty"`

	LeaseStart time.Time `json:"lease_start"`
	LeaseEnd   time.Time `json:"lease_end"`

	// Monetary terms are integer minor currency units (cents).
	MonthlyRentCents     int64  `json:"monthly_rent_cents"`
	SecurityDepositCents int64  `json:"security_deposit_cents"`
	Currency             string `json:"currency"`

	Terms             string `json:"terms,omitempty"`
	SpecialConditions string `json:"special_conditions,omitempty"`

	LandlordSignature *Signature `json:"landlord_signature,omitempty"`
	TenantSignature   *Signature `json:"tenant_signature,omitempty"`

	Status       ContractStatus `json:"status"`
	SentToTenant *time.Time     `json:"sent_to_tenant_at,omitempty"`

	DepositPaid       bool        `json:"deposit_paid"`
	DepositSettlement *Settlement `json:"deposit_settlement,omitempty"`
	RentPaid          bool        `json:"first_month_rent_paid"`
	RentSettlement    *Settlement `json:"rent_settlement,omitempty"`

	KeysCollected bool `json:"keys_collected"`

	ChecklistID          string     `json:"checklist_id,omitempty"`
	ChecklistDeadline    *time.Time `json:"checklist_deadline,omitempty"`
	ChecklistCompletedAt *time.Time `json:"checklist_completed_at,omitempty"`

	DocumentURL string `json:"document_url,omitempty"`

	TerminatedAt *time.Time `json:"terminated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleOf resolves a caller against the stored party ids. The signer role is
// never taken from client input so a tenant cannot claim the landlord slot.
func (c Contract) RoleOf(subjectID string) (PartyRole, bool) {
	switch subjectID {
	case "":
		return "", false
	case c.LandlordID:
		return PartyRoleLandlord, true
	case c.TenantID:
		return PartyRoleTenant, true
	default:
		return "", false
	}
}

// Deletable reports whether the contract may still be hard-deleted.
// Once both signatures are captured the platform owns the record.
func (c Contract) Deletable() bool {
	switch c.Status {
	case ContractStatusDraft, ContractStatusSentToTenant, ContractStatusTenantSigned:
		return true
	default:
		return false
	}
}

// DeriveStatus projects the lifecycle status from the signature, payment
// and key flags. Administrative terminal states stick; everything else is
// recomputed so the stored enum can never drift from the flags. Every
// mutating transaction runs this before persisting.
func DeriveStatus(c Contract) ContractStatus {
	switch c.Status {
	case ContractStatusTerminated, ContractStatusExpired:
		return c.Status
	}
	if c.KeysCollected {
		return ContractStatusActive
	}
	if c.LandlordSignature != nil && c.TenantSignature != nil {
		return ContractStatusFullySigned
	}
	if c.TenantSignature != nil {
		return ContractStatusTenantSigned
	}
	if c.SentToTenant != nil {
		return ContractStatusSentToTenant
	}
	return ContractStatusDraft
}

// EscrowSettled reports whether both obligations that gate key handover
// are satisfied.
func (c Contract) EscrowSettled() bool {
	return c.DepositPaid && c.RentPaid
}
