package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EmployeeRole represents the access level of an account.
type EmployeeRole string

const (
	RoleAdmin    EmployeeRole = "admin"
	RoleEmployee EmployeeRole = "employee"
)

// Employee is the directory entry for a person. Identity management
// (passwords, OTP, token issuance) is owned by the external user system;
// this service only reads the roster.
type Employee struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Email     string       `db:"email" json:"email"`
	Role      EmployeeRole `db:"role" json:"role"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// Claims are the verified contents of an access token.
type Claims struct {
	EmployeeID string       `json:"employee_id"`
	Role       EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
