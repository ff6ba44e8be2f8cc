package models

import (
	"time"

	"gorm.io/gorm"
)

type LocationHistory struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"index"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	RouteID          string    `json:"route_id,omitempty" gorm:"index"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Accuracy         float64   `json:"accuracy"` // meters
	Speed            float64   `json:"speed"`    // m/s
	Bearing          float64   `json:"bearing"`  // degrees
	Altitude         float64   `json:"altitude"` // meters
	IsMoving         bool      `json:"is_moving"`
	DistanceFromLast float64   `json:"distance_from_last"`
	Timestamp        time.Time `json:"timestamp" gorm:"index"`
	EventType        string    `json:"event_type"` // "initial", "move", "stopped", "started", "periodic"
}
