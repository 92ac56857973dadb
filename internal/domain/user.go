package domain

import (
	"strings"
	"time"
)

// Role is a user role. Values are normalized to lower case at the
// boundary (ParseRole); comparisons elsewhere are plain equality.
type Role string

const (
	RoleDonor Role = "donor"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a raw role string. Unknown values fall back to
// RoleDonor so a corrupted row never grants elevated access.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleDonor
	}
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// BloodGroup is one of the eight ABO/Rh blood groups.
type BloodGroup string

// Blood groups.
const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// IsValid checks if the blood group is valid.
func (g BloodGroup) IsValid() bool {
	switch g {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg:
		return true
	}
	return false
}

// User represents a donor or admin account. The password hash is never
// serialized in responses.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Phone            string     `json:"phone"`
	BloodGroup       BloodGroup `json:"bloodGroup"`
	DateOfBirth      time.Time  `json:"dateOfBirth"`
	City             string     `json:"city"`
	Location         string     `json:"location"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
	Role             Role       `json:"role"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address. Emails are
// stored normalized; lookups must use the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
