package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"parking-backend/internal/cache"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db         Pinger
	cacheCheck func() bool
	cacheOn    bool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    *CacheHealth   `json:"cache,omitempty"`
	Host     *HostHealth    `json:"host,omitempty"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type CacheHealth struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
}

type HostHealth struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	MemoryTotalMB     uint64  `json:"memory_total_mb"`
	DiskUsedPercent   float64 `json:"disk_used_percent"`
	Load1             float64 `json:"load_1"`
}

// NewHealthChecker checks db and, when cacheEnabled, the redis client
func NewHealthChecker(db Pinger, cacheEnabled bool) *HealthChecker {
	return &HealthChecker{db: db, cacheCheck: cache.IsHealthy, cacheOn: cacheEnabled}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed adds cache and host stats. A down cache only degrades.
func (h *HealthChecker) CheckDetailed() HealthStatus {
	status := h.CheckBasic()

	ch := &CacheHealth{Enabled: h.cacheOn, Status: "disabled"}
	if h.cacheOn {
		ch.Status = "healthy"
		if !h.cacheCheck() {
			ch.Status = "unhealthy"
			if status.Status == "healthy" {
				status.Status = "degraded"
			}
		}
	}
	status.Cache = ch
	status.Host = hostStats()
	return status
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func hostStats() *HostHealth {
	host := &HostHealth{}
	if memStats, err := mem.VirtualMemory(); err == nil {
		host.MemoryUsedPercent = memStats.UsedPercent
		host.MemoryTotalMB = memStats.Total / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		host.DiskUsedPercent = diskStats.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		host.Load1 = avg.Load1
	}
	return host
}
