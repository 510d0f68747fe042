package domain

import "time"

type PropertyStatus string

const (
	PropertyStatusActive PropertyStatus = "active"
	PropertyStatusRented PropertyStatus = "rented"
)

// Property carries only what the lifecycle engine needs: the registered
// address (default handover location) and the searchable status that gets
// reverted on termination/expiry. Listings themselves live elsewhere.
type Property struct {
	PropertyID string         `json:"property_id"`
	LandlordID string         `json:"landlord_id"`
	Address    string         `json:"address"`
	Status     PropertyStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
