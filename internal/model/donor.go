package model

import "time"

// Donor is the drawing engine's read-only view of a donor. Donor records are
// owned by the donation ledger; the engine only reads identity and shipping
// region.
type Donor struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"-"`
	Country     string    `json:"country,omitempty"`
	Region      string    `json:"region,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
