package models

import "gorm.io/gorm"

// Roles a user may hold.
const (
	RoleRep        = "rep"
	RoleDriver     = "driver"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "rep", "driver", "supervisor", "admin"

	// SalesPerson is the employee id the remote backend knows this user by.
	SalesPerson string `json:"sales_person" gorm:"index"`

	TeamID *uint `json:"team_id" gorm:"index"`
	Team   *Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"team,omitempty"`
}

// FieldUser reports whether the user executes routes.
func (u User) FieldUser() bool {
	return u.Role == RoleRep || u.Role == RoleDriver
}
