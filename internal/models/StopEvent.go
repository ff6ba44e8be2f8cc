package models

import (
	"time"

	"gorm.io/gorm"
)

// Stop event kinds.
const (
	EventTransition      = "transition"
	EventActivity        = "activity"
	EventActivitySkipped = "activity_skipped"
	EventProofOfDelivery = "proof_of_delivery"
)

// StopEvent journals every acknowledged change made at a stop.
type StopEvent struct {
	gorm.Model
	EventID    string `json:"event_id" gorm:"uniqueIndex;size:36"`
	RouteID    string `json:"route_id" gorm:"index"`
	StopID     string `json:"stop_id" gorm:"index"`
	UserID     uint   `json:"user_id" gorm:"index"`
	Kind       string `json:"kind"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Activity   string `json:"activity,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Notes      string `json:"notes,omitempty"`

	// Location is a WKB POINT (SRID 4326); empty when GPS was unavailable.
	Location   []byte    `gorm:"type:bytea" json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
}
