package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parking_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_tickets_issued_total",
			Help: "Vehicles checked in, by slot category",
		},
		[]string{"category"},
	)

	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_settlements_total",
			Help: "Payments settled, by method",
		},
		[]string{"method"},
	)

	RevenueSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_revenue_settled_total",
			Help: "Sum of settled payment amounts",
		},
	)

	SlotsFreed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_slots_freed_total",
			Help: "Parked entries moved to Exited from the occupancy grid",
		},
	)

	SlotsOccupied = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_slots_occupied",
			Help: "Slots holding a Parked entry, by active category",
		},
		[]string{"category"},
	)

	SlotsCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_slots_capacity",
			Help: "Configured slots, by active category",
		},
		[]string{"category"},
	)
)
