package models

import "time"

// LedgerRow is one payment joined with its entry and category
type LedgerRow struct {
	TicketNumber   string         `json:"ticket_number"`
	ParkingID      int            `json:"parking_id"`
	CustomerName   string         `json:"customer_name"`
	VehicleNumber  string         `json:"vehicle_number"`
	ContactNumber  string         `json:"contact_number"`
	IdentityNumber string         `json:"identity_number"`
	CategoryName   string         `json:"category_name"`
	SlotNumber     int            `json:"slot_number"`
	ParkingDate    string         `json:"parking_date"`
	EntryTime      time.Time      `json:"entry_time"`
	ExitTime       time.Time      `json:"exit_time"`
	HoursParked    int            `json:"hours_parked"`
	Amount         float64        `json:"amount"`
	AmountDisplay  string         `json:"amount_display"`
	Status         PaymentStatus  `json:"status"`
	Method         *PaymentMethod `json:"method,omitempty"`
}

// LedgerFilter narrows the ledger listing. Zero values mean no filter.
type LedgerFilter struct {
	Status PaymentStatus
	Query  string
	Limit  int
}

// TicketField is one labelled line of a printed ticket
type TicketField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
