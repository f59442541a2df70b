package domain

import "time"

// Version is one immutable snapshot of a brochure document.
// Numbers are strictly increasing per (brochure, tenant), starting at 1.
type Version struct {
	BrochureID string    `json:"brochure_id"`
	TenantID   string    `json:"tenant_id"`
	Number     int       `json:"version_number"`
	Action     string    `json:"action"`
	Data       []byte    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}

// VersionSummary is the list-view projection of a version (no snapshot data).
type VersionSummary struct {
	Number    int       `json:"version_number"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
