package model

import "time"

// Event represents one charity marathon whose prizes are drawn by this system.
type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	// AcceptDeadlineDays is added to the draw day (anywhere-on-earth end of
	// day) to produce a winner's accept deadline.
	AcceptDeadlineDays int `json:"accept_deadline_days"`
	// AllowedCountries is the event-wide shipping allow-list. Empty means
	// every country is allowed.
	AllowedCountries []string `json:"allowed_countries,omitempty"`
	// DeniedRegions lists (country, region) pairs excluded even when the
	// country itself is on the allow-list.
	DeniedRegions    []Region  `json:"denied_regions,omitempty"`
	CoordinatorName  string    `json:"coordinator_name,omitempty"`
	CoordinatorEmail string    `json:"coordinator_email,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Region identifies a state or province within a country for deny-list checks.
type Region struct {
	Country string `json:"country"`
	Region  string `json:"region"`
}
