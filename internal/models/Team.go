package models

import "gorm.io/gorm"

// Team groups field users under a supervisor; live locations are broadcast
// per team.
type Team struct {
	gorm.Model
	Name         string `json:"name" binding:"required"`
	Territory    string `json:"territory"`
	SupervisorID uint   `json:"supervisor_id" gorm:"index"`

	Members []User `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
