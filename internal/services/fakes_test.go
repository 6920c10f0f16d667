package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
	"parking-backend/internal/timeutil"
)

// fakeLot is an in-memory stand-in for the postgres repositories
type fakeLot struct {
	mu         sync.Mutex
	categories map[int]*models.SlotCategory
	entries    map[int]*models.ParkingEntry
	payments   map[int]*models.Payment // by parking id
	counters   map[int]int
	nextID     int

	amountUpdates int
}

func newFakeLot() *fakeLot {
	return &fakeLot{
		categories: map[int]*models.SlotCategory{},
		entries:    map[int]*models.ParkingEntry{},
		payments:   map[int]*models.Payment{},
		counters:   map[int]int{},
	}
}

func (f *fakeLot) id() int {
	f.nextID++
	return f.nextID
}

// SlotCategoryStore

func (f *fakeLot) Create(_ context.Context, c *models.SlotCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	c.IsActive = true
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeLot) Update(_ context.Context, c *models.SlotCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeLot) SetActive(_ context.Context, id int, active bool) (*models.SlotCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.IsActive = active
	cp := *c
	return &cp, nil
}

func (f *fakeLot) Get(_ context.Context, id int) (*models.SlotCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeLot) List(_ context.Context, activeOnly bool) ([]*models.SlotCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SlotCategory
	for _, c := range f.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// parking is the ParkingStore view of the lot
type parking struct{ *fakeLot }

func (p parking) CreateWithPayment(_ context.Context, e *models.ParkingEntry, pay *models.Payment) error {
	f := p.fakeLot
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.entries {
		if other.CategoryID == e.CategoryID && other.SlotNumber == e.SlotNumber && other.Status == models.EntryStatusParked {
			return repositories.ErrSlotOccupied
		}
	}
	e.ID = f.id()
	e.Status = models.EntryStatusParked
	ep := *e
	f.entries[e.ID] = &ep

	year := timeutil.YearPrefix(e.EntryTime)
	f.counters[year]++
	pay.ID = f.id()
	pay.ParkingID = e.ID
	pay.TicketNumber = models.FormatTicketNumber(year, f.counters[year])
	pay.Status = models.PaymentStatusUnpaid
	pp := *pay
	f.payments[e.ID] = &pp
	return nil
}

func (p parking) Get(_ context.Context, id int) (*models.ParkingEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (p parking) List(_ context.Context, status models.EntryStatus) ([]*models.ParkingEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.ParkingEntry
	for _, e := range p.entries {
		if status != "" && e.Status != status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (p parking) OccupiedSlots(_ context.Context, categoryID int) ([]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []int
	for _, e := range p.entries {
		if e.CategoryID == categoryID && e.Status == models.EntryStatusParked {
			out = append(out, e.SlotNumber)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (p parking) OccupiedCounts(_ context.Context) (map[int]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	counts := map[int]int{}
	for _, e := range p.entries {
		if e.Status == models.EntryStatusParked {
			counts[e.CategoryID]++
		}
	}
	return counts, nil
}

func (p parking) SlotOccupied(ctx context.Context, categoryID, slotNumber int) (bool, error) {
	slots, _ := p.OccupiedSlots(ctx, categoryID)
	for _, n := range slots {
		if n == slotNumber {
			return true, nil
		}
	}
	return false, nil
}

func (p parking) MaxOccupiedSlot(ctx context.Context, categoryID int) (int, error) {
	slots, _ := p.OccupiedSlots(ctx, categoryID)
	if len(slots) == 0 {
		return 0, nil
	}
	return slots[len(slots)-1], nil
}

func (p parking) FreeSlot(_ context.Context, categoryID, slotNumber int, at time.Time) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.CategoryID == categoryID && e.SlotNumber == slotNumber && e.Status == models.EntryStatusParked {
			e.Status = models.EntryStatusExited
			e.ExitedAt = &at
			return e.ID, nil
		}
	}
	return 0, repositories.ErrNotFound
}

// payments is the PaymentStore and LedgerStore view of the lot
type payments struct{ *fakeLot }

func (p payments) GetSettlement(_ context.Context, parkingID int) (*models.SettlementRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[parkingID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := p.categories[e.CategoryID]
	return &models.SettlementRecord{
		Entry:        *e,
		CategoryName: c.Name,
		Fare:         c.Fare,
		Payment:      *p.payments[parkingID],
	}, nil
}

func (p payments) UpdateAmount(_ context.Context, parkingID int, amount float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pay := p.payments[parkingID]; pay != nil && pay.Status == models.PaymentStatusUnpaid {
		pay.Amount = amount
		p.amountUpdates++
	}
	return nil
}

func (p payments) MarkPaid(_ context.Context, parkingID int, amount float64, method models.PaymentMethod, paidAt time.Time) (*models.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pay, ok := p.payments[parkingID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if pay.Status == models.PaymentStatusPaid {
		return nil, repositories.ErrAlreadyPaid
	}
	pay.Amount = amount
	pay.Status = models.PaymentStatusPaid
	pay.Method = &method
	pay.PaidAt = &paidAt
	cp := *pay
	return &cp, nil
}

func (p payments) row(pay *models.Payment) *models.LedgerRow {
	e := p.entries[pay.ParkingID]
	c := p.categories[e.CategoryID]
	return &models.LedgerRow{
		TicketNumber:   pay.TicketNumber,
		ParkingID:      e.ID,
		CustomerName:   e.CustomerName,
		VehicleNumber:  e.VehicleNumber,
		ContactNumber:  e.ContactNumber,
		IdentityNumber: e.IdentityNumber,
		CategoryName:   c.Name,
		SlotNumber:     e.SlotNumber,
		EntryTime:      e.EntryTime,
		ExitTime:       e.ExpectedExit,
		Amount:         pay.Amount,
		Status:         pay.Status,
		Method:         pay.Method,
	}
}

func (p payments) List(_ context.Context, f models.LedgerFilter) ([]*models.LedgerRow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.LedgerRow
	for _, pay := range p.payments {
		if f.Status != "" && pay.Status != f.Status {
			continue
		}
		r := p.row(pay)
		if f.Query != "" && !strings.Contains(r.TicketNumber, f.Query) && !strings.Contains(r.VehicleNumber, f.Query) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber > out[j].TicketNumber })
	return out, nil
}

func (p payments) GetByTicket(_ context.Context, ticket string) (*models.LedgerRow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pay := range p.payments {
		if pay.TicketNumber == ticket {
			return p.row(pay), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// DailyTotals groups entries by IST date the way ReportRepository does
func (p payments) DailyTotals(_ context.Context, rng models.ReportRange) ([]models.DailyAggregate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	byDay := map[string]*models.DailyAggregate{}
	for id, e := range p.entries {
		if rng.From != nil && e.EntryTime.Before(*rng.From) {
			continue
		}
		if rng.To != nil && !e.EntryTime.Before(rng.To.AddDate(0, 0, 1)) {
			continue
		}
		day := timeutil.FormatIST(e.EntryTime, timeutil.DateLayout)
		d := byDay[day]
		if d == nil {
			d = &models.DailyAggregate{Date: day}
			byDay[day] = d
		}
		d.Revenue += p.payments[id].Amount
		d.Entries++
	}
	var out []models.DailyAggregate
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// movableClock is a Clock tests can advance
type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time          { return c.t.In(timeutil.IST) }
func (c *movableClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeUsers struct {
	users []*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	u.ID = len(f.users) + 1
	u.IsActive = true
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}
