package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"parking-backend/internal/cache"
	"parking-backend/internal/models"
	"parking-backend/internal/validation"
)

type SlotCategoryService struct {
	Categories SlotCategoryStore
	Parking    ParkingStore
}

func NewSlotCategoryService(categories SlotCategoryStore, parking ParkingStore) *SlotCategoryService {
	return &SlotCategoryService{Categories: categories, Parking: parking}
}

func (s *SlotCategoryService) Create(ctx context.Context, req *models.SlotCategoryRequest) (*models.SlotCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c := &models.SlotCategory{Name: req.Name, Fare: req.Fare, Capacity: req.Capacity}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}

	cache.InvalidateSlotCategoryCaches(ctx)
	log.Printf("[SlotCategory] Created %q (id=%d, fare=%.2f, slots=%d)", c.Name, c.ID, c.Fare, c.Capacity)
	return c, nil
}

// Update replaces name, fare and capacity. Capacity may not drop below
// the highest slot that currently holds a vehicle.
func (s *SlotCategoryService) Update(ctx context.Context, id int, req *models.SlotCategoryRequest) (*models.SlotCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.Categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	highest, err := s.Parking.MaxOccupiedSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Capacity < highest {
		return nil, validation.New("capacity",
			fmt.Sprintf("Number of slots cannot be less than %d while slot %d is occupied", highest, highest))
	}

	c.Name = req.Name
	c.Fare = req.Fare
	c.Capacity = req.Capacity
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, err
	}

	cache.InvalidateSlotCategoryCaches(ctx)
	log.Printf("[SlotCategory] Updated %d: %q fare=%.2f slots=%d", c.ID, c.Name, c.Fare, c.Capacity)
	return c, nil
}

func (s *SlotCategoryService) SetActive(ctx context.Context, id int, active bool) (*models.SlotCategory, error) {
	c, err := s.Categories.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	cache.InvalidateSlotCategoryCaches(ctx)
	log.Printf("[SlotCategory] %d active=%t", id, active)
	return c, nil
}

func (s *SlotCategoryService) Get(ctx context.Context, id int) (*models.SlotCategory, error) {
	return s.Categories.Get(ctx, id)
}

func (s *SlotCategoryService) List(ctx context.Context, activeOnly bool) ([]*models.SlotCategory, error) {
	key := cache.SlotCategoriesKey(activeOnly)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached []*models.SlotCategory
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.Categories.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.SlotCategory{}
	}

	if data, err := json.Marshal(categories); err == nil {
		cache.SetCached(ctx, key, data, cache.SlotCategoryTTL)
	}
	return categories, nil
}
