package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parking-backend/internal/metrics"
)

func TestOccupancyCollector(t *testing.T) {
	f := newLotFixture(t)
	ctx := context.Background()
	c := f.category(t, "Six Wheeler", 200, 6)
	_, err := f.intake.Create(ctx, intakeRequest(c.ID, 2, 1))
	require.NoError(t, err)

	collector := NewOccupancyCollector(f.occupancy, time.Hour)
	collector.Collect(ctx)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SlotsOccupied.WithLabelValues("Six Wheeler")))
	assert.Equal(t, 6.0, testutil.ToFloat64(metrics.SlotsCapacity.WithLabelValues("Six Wheeler")))

	_, err = f.categories.SetActive(ctx, c.ID, false)
	require.NoError(t, err)
	collector.Collect(ctx)
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.SlotsCapacity))
}

func TestOccupancyCollectorStartStop(t *testing.T) {
	f := newLotFixture(t)
	collector := NewOccupancyCollector(f.occupancy, time.Millisecond)
	collector.Start()
	time.Sleep(5 * time.Millisecond)
	collector.Stop()
}
