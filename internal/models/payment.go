package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard}

// Payment is the single billing record of a parking entry
type Payment struct {
	ID           int            `json:"id"`
	ParkingID    int            `json:"parking_id"`
	TicketNumber string         `json:"ticket_number"`
	Amount       float64        `json:"amount"`
	Status       PaymentStatus  `json:"status"`
	Method       *PaymentMethod `json:"method,omitempty"`
	PaidAt       *time.Time     `json:"paid_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

const ticketPrefix = "PK"

var ticketPattern = regexp.MustCompile(`^PK-(\d{2})-(\d{4,})$`)

// FormatTicketNumber renders PK-YY-NNNN
func FormatTicketNumber(yearPrefix, seq int) string {
	return fmt.Sprintf("%s-%02d-%04d", ticketPrefix, yearPrefix, seq)
}

// ParseTicketNumber splits a ticket number into its year prefix and sequence
func ParseTicketNumber(ticket string) (int, int, error) {
	m := ticketPattern.FindStringSubmatch(ticket)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid ticket number %q", ticket)
	}
	year, _ := strconv.Atoi(m[1])
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ticket sequence %q: %w", ticket, err)
	}
	return year, seq, nil
}

// SettlementRecord is the joined entry, category and payment data a
// settlement is computed from
type SettlementRecord struct {
	Entry        ParkingEntry
	CategoryName string
	Fare         float64
	Payment      Payment
}

// Settlement is the bill shown before and after payment
type Settlement struct {
	ParkingID     int             `json:"parking_id"`
	TicketNumber  string          `json:"ticket_number"`
	CustomerName  string          `json:"customer_name"`
	VehicleNumber string          `json:"vehicle_number"`
	ContactNumber string          `json:"contact_number"`
	CategoryName  string          `json:"category_name"`
	SlotNumber    int             `json:"slot_number"`
	EntryTime     time.Time       `json:"entry_time"`
	ExitTime      time.Time       `json:"exit_time"`
	HoursParked   int             `json:"hours_parked"`
	Fare          float64         `json:"fare"`
	Amount        float64         `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	Method        *PaymentMethod  `json:"method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Methods       []PaymentMethod `json:"methods"`
	Next          *Next           `json:"next,omitempty"`
}

// PayRequest settles a bill. Confirm must be true.
type PayRequest struct {
	Method  PaymentMethod `json:"method" validate:"required,oneof=cash card"`
	Confirm bool          `json:"confirm"`
}
