package models

import "time"

type EntryStatus string

const (
	EntryStatusParked EntryStatus = "Parked"
	EntryStatusExited EntryStatus = "Exited"
)

// ParkingEntry is one vehicle check-in occupying a slot
type ParkingEntry struct {
	ID             int         `json:"id"`
	CategoryID     int         `json:"category_id"`
	SlotNumber     int         `json:"slot_number"`
	CustomerName   string      `json:"customer_name"`
	VehicleNumber  string      `json:"vehicle_number"`
	ContactNumber  string      `json:"contact_number"`
	IdentityNumber string      `json:"identity_number"`
	DurationHours  int         `json:"duration_hours"`
	EntryTime      time.Time   `json:"entry_time"`
	ExpectedExit   time.Time   `json:"expected_exit"`
	ExitedAt       *time.Time  `json:"exited_at,omitempty"`
	Status         EntryStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CreateParkingRequest is the intake form
type CreateParkingRequest struct {
	CategoryID     int    `json:"category_id" validate:"gt=0"`
	SlotNumber     int    `json:"slot_number" validate:"gt=0"`
	CustomerName   string `json:"customer_name" validate:"personname"`
	VehicleNumber  string `json:"vehicle_number" validate:"vehiclereg"`
	ContactNumber  string `json:"contact_number" validate:"digits=10"`
	IdentityNumber string `json:"identity_number" validate:"digits=12"`
	DurationHours  int    `json:"duration_hours" validate:"min=1,max=999"`
}

// IntakeResult is returned after a successful check-in
type IntakeResult struct {
	Entry   *ParkingEntry `json:"entry"`
	Payment *Payment      `json:"payment"`
	Next    Next          `json:"next"`
}
