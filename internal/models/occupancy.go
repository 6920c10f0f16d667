package models

// CategoryOccupancy summarises one active category on the overview
type CategoryOccupancy struct {
	CategoryID int     `json:"category_id"`
	Name       string  `json:"name"`
	Fare       float64 `json:"fare"`
	Capacity   int     `json:"capacity"`
	Occupied   int     `json:"occupied"`
	Free       int     `json:"free"`
}

// SlotCell is one slot of the grid. Row and Column are zero based.
type SlotCell struct {
	SlotNumber int  `json:"slot_number"`
	Row        int  `json:"row"`
	Column     int  `json:"column"`
	Occupied   bool `json:"occupied"`
}

// OccupancyGrid lays out every slot of a category ten per row
type OccupancyGrid struct {
	CategoryID int        `json:"category_id"`
	Name       string     `json:"name"`
	Capacity   int        `json:"capacity"`
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	Occupied   int        `json:"occupied"`
	Cells      []SlotCell `json:"cells"`
}

// SelectResult answers a click on a grid cell
type SelectResult struct {
	Next  Next           `json:"next"`
	Freed bool           `json:"freed"`
	Grid  *OccupancyGrid `json:"grid,omitempty"`
}
