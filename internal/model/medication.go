package model

import "time"

// DateLayout is the calendar date format used for medication logs.
const DateLayout = "2006-01-02"

// AdherenceDivisor is the fixed number of days adherence is measured against.
const AdherenceDivisor = 30

// Medication represents a medication owned by a user
type Medication struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Dosage     string    `json:"dosage"`
	Frequency  string    `json:"frequency"`  // Free text, e.g. "daily"
	TakenToday bool      `json:"takenToday"` // Derived: the user has a log for today
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateMedicationRequest is used for adding a new medication.
// Empty strings are accepted for every field.
type CreateMedicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// MedicationLog records that a user confirmed adherence on a calendar date
type MedicationLog struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	MedicationID *int64    `json:"medicationId,omitempty"` // Medication that triggered the day's log
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MedicationUpdate is the payload pushed to real-time subscribers
type MedicationUpdate struct {
	ID    int64 `json:"id"`
	Taken bool  `json:"taken"`
}
