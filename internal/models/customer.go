package models

import (
	"slices"
	"strings"
	"time"
)

type Customer struct {
	ID        uint      `gorm:"column:customer_id;primaryKey" json:"customer_id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Admin     bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// PermissionReport lets an admin pull customer reports.
const PermissionReport = "report"

// Principal is the authenticated caller. Permissions only apply to admins.
type Principal struct {
	CustomerID  uint     `json:"customer_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

func PrincipalFromCustomer(c *Customer) Principal {
	p := Principal{
		CustomerID: c.ID,
		Name:       c.FullName(),
		Email:      c.Email,
		Role:       RoleCustomer,
	}
	if c.Admin {
		p.Role = RoleAdmin
		p.Permissions = []string{PermissionReport}
	}
	return p
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) Can(permission string) bool {
	return p.IsAdmin() && slices.Contains(p.Permissions, permission)
}
