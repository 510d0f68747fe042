package domain

import "time"

type KeyCollectionStatus string

const (
	KeyCollectionStatusScheduled KeyCollectionStatus = "scheduled"
	KeyCollectionStatusConfirmed KeyCollectionStatus = "confirmed"
	KeyCollectionStatusCompleted KeyCollectionStatus = "completed"
	KeyCollectionStatusCancelled KeyCollectionStatus = "cancelled"
)

// KeyCollection is the scheduled physical handover event. Completion is
// the only path that promotes a fully-signed contract to active.
type KeyCollection struct {
	CollectionID string `json:"collection_id"`
	ContractID   string `json:"contract_id"`

	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`

	LandlordConfirmed bool `json:"landlord_confirmed"`
	TenantConfirmed   bool `json:"tenant_confirmed"`

	Status      KeyCollectionStatus `json:"status"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (k KeyCollection) Terminal() bool {
	return k.Status == KeyCollectionStatusCompleted || k.Status == KeyCollectionStatusCancelled
}
