package repositories

import (
	"context"
	"fmt"

	"parking-backend/internal/models"
)

type SlotCategoryRepository struct {
	DB DBTX
}

func NewSlotCategoryRepository(db DBTX) *SlotCategoryRepository {
	return &SlotCategoryRepository{DB: db}
}

const slotCategoryColumns = `id, name, fare, capacity, is_active, created_at, updated_at`

func scanSlotCategory(row interface{ Scan(...interface{}) error }) (*models.SlotCategory, error) {
	var c models.SlotCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Fare, &c.Capacity, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SlotCategoryRepository) Create(ctx context.Context, c *models.SlotCategory) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO slot_categories(name, fare, capacity, is_active)
		 VALUES($1, $2, $3, TRUE)
		 RETURNING id, is_active, created_at, updated_at`,
		c.Name, c.Fare, c.Capacity,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("SlotCategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *SlotCategoryRepository) Update(ctx context.Context, c *models.SlotCategory) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE slot_categories SET name=$2, fare=$3, capacity=$4, updated_at=NOW()
		 WHERE id=$1
		 RETURNING is_active, created_at, updated_at`,
		c.ID, c.Name, c.Fare, c.Capacity,
	).Scan(&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("SlotCategoryRepository.Update: %w", notFound(err))
	}
	return nil
}

func (r *SlotCategoryRepository) SetActive(ctx context.Context, id int, active bool) (*models.SlotCategory, error) {
	c, err := scanSlotCategory(r.DB.QueryRow(ctx,
		`UPDATE slot_categories SET is_active=$2, updated_at=NOW()
		 WHERE id=$1
		 RETURNING `+slotCategoryColumns,
		id, active,
	))
	if err != nil {
		return nil, fmt.Errorf("SlotCategoryRepository.SetActive: %w", notFound(err))
	}
	return c, nil
}

func (r *SlotCategoryRepository) Get(ctx context.Context, id int) (*models.SlotCategory, error) {
	c, err := scanSlotCategory(r.DB.QueryRow(ctx,
		`SELECT `+slotCategoryColumns+` FROM slot_categories WHERE id=$1`, id))
	if err != nil {
		return nil, fmt.Errorf("SlotCategoryRepository.Get: %w", notFound(err))
	}
	return c, nil
}

func (r *SlotCategoryRepository) List(ctx context.Context, activeOnly bool) ([]*models.SlotCategory, error) {
	query := `SELECT ` + slotCategoryColumns + ` FROM slot_categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("SlotCategoryRepository.List: %w", err)
	}
	defer rows.Close()

	var categories []*models.SlotCategory
	for rows.Next() {
		c, err := scanSlotCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("SlotCategoryRepository.List: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
