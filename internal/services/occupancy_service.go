package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"parking-backend/internal/metrics"
	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
)

// GridColumns is the number of slots per grid row
const GridColumns = 10

type OccupancyService struct {
	Categories SlotCategoryStore
	Parking    ParkingStore
	Clock      timeutil.Clock
}

func NewOccupancyService(categories SlotCategoryStore, parking ParkingStore, clock timeutil.Clock) *OccupancyService {
	return &OccupancyService{Categories: categories, Parking: parking, Clock: clock}
}

// Overview lists every active category with its occupied and free counts
func (s *OccupancyService) Overview(ctx context.Context) ([]models.CategoryOccupancy, error) {
	categories, err := s.Categories.List(ctx, true)
	if err != nil {
		return nil, err
	}
	counts, err := s.Parking.OccupiedCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategoryOccupancy, 0, len(categories))
	for _, c := range categories {
		occupied := counts[c.ID]
		free := c.Capacity - occupied
		if free < 0 {
			free = 0
		}
		out = append(out, models.CategoryOccupancy{
			CategoryID: c.ID,
			Name:       c.Name,
			Fare:       c.Fare,
			Capacity:   c.Capacity,
			Occupied:   occupied,
			Free:       free,
		})
	}
	return out, nil
}

// Grid renders the slots of an active category
func (s *OccupancyService) Grid(ctx context.Context, categoryID int) (*models.OccupancyGrid, error) {
	c, err := s.activeCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.Parking.OccupiedSlots(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return BuildGrid(c, occupied), nil
}

// Select handles a click on a cell. A free cell hands off to intake. An
// occupied cell asks for confirmation first, then frees the slot.
func (s *OccupancyService) Select(ctx context.Context, categoryID, slotNumber int, confirm bool) (*models.SelectResult, error) {
	c, err := s.activeCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if slotNumber < 1 || slotNumber > c.Capacity {
		return nil, validation.New("slot_number", fmt.Sprintf("Slot %d does not exist in %s", slotNumber, c.Name))
	}

	occupied, err := s.Parking.SlotOccupied(ctx, categoryID, slotNumber)
	if err != nil {
		return nil, err
	}

	if !occupied {
		return &models.SelectResult{
			Next: models.Next{Screen: models.ScreenIntake, CategoryID: categoryID, SlotNumber: slotNumber},
		}, nil
	}

	if !confirm {
		return &models.SelectResult{
			Next: models.Next{Screen: models.ScreenConfirmFree, CategoryID: categoryID, SlotNumber: slotNumber},
		}, nil
	}

	freed := true
	entryID, err := s.Parking.FreeSlot(ctx, categoryID, slotNumber, s.Clock.Now())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		// freed by someone else in the meantime
		freed = false
	case err != nil:
		return nil, err
	default:
		metrics.SlotsFreed.Inc()
		log.Printf("[Occupancy] Freed %s slot %d (entry %d)", c.Name, slotNumber, entryID)
	}

	slots, err := s.Parking.OccupiedSlots(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &models.SelectResult{
		Next:  models.Next{Screen: models.ScreenOccupancy, CategoryID: categoryID},
		Freed: freed,
		Grid:  BuildGrid(c, slots),
	}, nil
}

func (s *OccupancyService) activeCategory(ctx context.Context, categoryID int) (*models.SlotCategory, error) {
	c, err := s.Categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, fmt.Errorf("slot category %d is inactive: %w", categoryID, repositories.ErrNotFound)
	}
	return c, nil
}

// BuildGrid lays out slots 1..capacity ten per row
func BuildGrid(c *models.SlotCategory, occupiedSlots []int) *models.OccupancyGrid {
	occupied := make(map[int]bool, len(occupiedSlots))
	for _, n := range occupiedSlots {
		occupied[n] = true
	}

	columns := c.Capacity
	if columns > GridColumns {
		columns = GridColumns
	}
	grid := &models.OccupancyGrid{
		CategoryID: c.ID,
		Name:       c.Name,
		Capacity:   c.Capacity,
		Rows:       (c.Capacity + GridColumns - 1) / GridColumns,
		Columns:    columns,
		Cells:      make([]models.SlotCell, 0, c.Capacity),
	}
	for n := 1; n <= c.Capacity; n++ {
		cell := models.SlotCell{
			SlotNumber: n,
			Row:        (n - 1) / GridColumns,
			Column:     (n - 1) % GridColumns,
			Occupied:   occupied[n],
		}
		if cell.Occupied {
			grid.Occupied++
		}
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}
