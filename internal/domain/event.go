package domain

import "time"

// Event represents a blood-donation event (a drive or camp).
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Location            string    `json:"location"`
	City                string    `json:"city"`
	Date                time.Time `json:"date"`
	Time                string    `json:"time"`
	Organizer           string    `json:"organizer"`
	ContactNumber       string    `json:"contactNumber"`
	RequiredBloodGroups []string  `json:"requiredBloodGroups"`
	CreatedBy           string    `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
