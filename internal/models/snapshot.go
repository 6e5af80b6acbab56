package models

import (
	"time"
)

// Snapshot is a saved copy of the gear state and BIS table
type Snapshot struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Note         string       `json:"note,omitempty"`
	Records      []SlotRecord `json:"records"`
	Bis          BisTable     `json:"bis"`
	ShareCode    string       `json:"share_code"`
	PendingCount int          `json:"pending_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// SnapshotCreate is the request body for creating a snapshot
type SnapshotCreate struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// SnapshotUpdate is the request body for updating a snapshot
type SnapshotUpdate struct {
	Name *string `json:"name,omitempty"`
	Note *string `json:"note,omitempty"`
}

// SnapshotSummary is a lightweight version for listings
type SnapshotSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ShareCode    string    `json:"share_code"`
	PendingCount int       `json:"pending_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}
