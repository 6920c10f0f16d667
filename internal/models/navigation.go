package models

// Screen identifies the workflow step a client should show next
type Screen string

const (
	ScreenOccupancy   Screen = "occupancy"
	ScreenIntake      Screen = "intake"
	ScreenConfirmFree Screen = "confirm_free"
	ScreenSettlement  Screen = "settlement"
	ScreenLedger      Screen = "ledger"
)

// Next is the navigation hint returned by every workflow step.
// Only the fields relevant to Screen are set.
type Next struct {
	Screen     Screen `json:"screen"`
	CategoryID int    `json:"category_id,omitempty"`
	SlotNumber int    `json:"slot_number,omitempty"`
	ParkingID  int    `json:"parking_id,omitempty"`
}
