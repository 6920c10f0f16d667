package models

import "time"

// Vehicle classes a slot category can be named after
const (
	SlotTwoWheeler   = "Two Wheeler"
	SlotThreeWheeler = "Three Wheeler"
	SlotFourWheeler  = "Four Wheeler"
	SlotSixWheeler   = "Six Wheeler"
)

var SlotCategoryNames = []string{SlotTwoWheeler, SlotThreeWheeler, SlotFourWheeler, SlotSixWheeler}

func IsSlotCategoryName(name string) bool {
	for _, n := range SlotCategoryNames {
		if n == name {
			return true
		}
	}
	return false
}

// SlotCategory is a class of parking slot with its hourly fare and slot count
type SlotCategory struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Fare      float64   `json:"fare"`
	Capacity  int       `json:"capacity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotCategoryRequest is the body for creating or updating a category
type SlotCategoryRequest struct {
	Name     string  `json:"name" validate:"required,slotname"`
	Fare     float64 `json:"fare" validate:"gte=0"`
	Capacity int     `json:"capacity" validate:"gt=0"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}
