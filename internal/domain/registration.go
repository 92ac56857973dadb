package domain

import "time"

// RegistrationStatusRegistered is the default status of a new registration.
// Registrations are never updated in place; cancelling deletes the row.
const RegistrationStatusRegistered = "registered"

// Registrant is the subset of user fields embedded in registration
// listings. Which fields are populated depends on the listing.
type Registrant struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	BloodGroup BloodGroup `json:"bloodGroup,omitempty"`
	City       string     `json:"city,omitempty"`
}

// Registration binds one user to one event. The (user, event) pair is
// unique; the storage layer enforces it.
type Registration struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Populated by listing queries. Event may be nil for registrations
	// whose event was deleted after the fact.
	User  *Registrant `json:"user,omitempty"`
	Event *Event      `json:"event,omitempty"`
}
