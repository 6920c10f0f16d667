package services

import (
	"context"
	"log"
	"sync"
	"time"

	"parking-backend/internal/metrics"
)

// OccupancyCollector periodically publishes per-category occupancy gauges
type OccupancyCollector struct {
	occupancy       *OccupancyService
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewOccupancyCollector(occupancy *OccupancyService, interval time.Duration) *OccupancyCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &OccupancyCollector{
		occupancy:       occupancy,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the collection loop
func (c *OccupancyCollector) Start() {
	log.Println("[MetricsCollector] Starting occupancy collector...")

	// Collect immediately on start
	c.Collect(context.Background())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Collect(context.Background())
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping occupancy collector...")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it to exit
func (c *OccupancyCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

// Collect reads the overview once and sets the gauges
func (c *OccupancyCollector) Collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	overview, err := c.occupancy.Overview(ctx)
	if err != nil {
		log.Printf("[MetricsCollector] occupancy overview failed: %v", err)
		return
	}

	// deactivated categories drop out of the gauges
	metrics.SlotsOccupied.Reset()
	metrics.SlotsCapacity.Reset()
	for _, o := range overview {
		metrics.SlotsOccupied.WithLabelValues(o.Name).Set(float64(o.Occupied))
		metrics.SlotsCapacity.WithLabelValues(o.Name).Set(float64(o.Capacity))
	}
}
