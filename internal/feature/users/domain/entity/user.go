// Package entity defines the domain entities for the users feature.
package entity

import "time"

// RoleUser is the role assigned to every newly registered user.
const RoleUser = "user"

// User represents a registered member of the platform.
type User struct {
	// ID is an opaque generated identifier (UUID string).
	ID string `gorm:"primaryKey;size:36"`

	// Email is the business key. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	Name     string `gorm:"size:255"`
	PhotoURL string `gorm:"size:1024"`

	// Role has no update path; it is always RoleUser on creation.
	Role string `gorm:"size:32;not null;default:user"`

	// IsPremium flips to true exactly once, when a payment is confirmed.
	IsPremium bool `gorm:"not null;default:false"`

	// TransactionID is the payment intent that upgraded the user.
	// NULL until the upgrade; unique so one payment can upgrade one user only.
	TransactionID *string `gorm:"uniqueIndex;size:255"`

	CreatedAt time.Time
}

// Status is the entitlement view of a user.
type Status struct {
	IsPremium bool
	Role      string
}

// DefaultStatus is reported for emails that have no user record.
func DefaultStatus() Status {
	return Status{IsPremium: false, Role: RoleUser}
}
