package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"parking-backend/internal/handlers"
	"parking-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	slotCategoryHandler *handlers.SlotCategoryHandler,
	occupancyHandler *handlers.OccupancyHandler,
	parkingHandler *handlers.ParkingHandler,
	settlementHandler *handlers.SettlementHandler,
	paymentHandler *handlers.PaymentHandler,
	reportHandler *handlers.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Health and metrics (no authentication)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Slot categories
	api.HandleFunc("/slot-categories", slotCategoryHandler.List).Methods("GET")
	api.HandleFunc("/slot-categories", slotCategoryHandler.Create).Methods("POST")
	api.HandleFunc("/slot-categories/{id}", slotCategoryHandler.Get).Methods("GET")
	api.HandleFunc("/slot-categories/{id}", slotCategoryHandler.Update).Methods("PUT")
	api.HandleFunc("/slot-categories/{id}/active", slotCategoryHandler.SetActive).Methods("PATCH")

	// Occupancy grid
	api.HandleFunc("/occupancy", occupancyHandler.Overview).Methods("GET")
	api.HandleFunc("/occupancy/{category_id}", occupancyHandler.Grid).Methods("GET")
	api.HandleFunc("/occupancy/{category_id}/slots/{slot_number}", occupancyHandler.Select).Methods("POST")

	// Intake
	api.HandleFunc("/parking", parkingHandler.List).Methods("GET")
	api.HandleFunc("/parking", parkingHandler.Create).Methods("POST")
	api.HandleFunc("/parking/{id}", parkingHandler.Get).Methods("GET")

	// Settlement
	api.HandleFunc("/settlements/{parking_id}", settlementHandler.Quote).Methods("GET")
	api.HandleFunc("/settlements/{parking_id}/pay", settlementHandler.Pay).Methods("POST")

	// Ledger (export must be registered before the ticket route)
	api.HandleFunc("/payments", paymentHandler.List).Methods("GET")
	api.HandleFunc("/payments/export.csv", paymentHandler.ExportCSV).Methods("GET")
	api.HandleFunc("/payments/{ticket_number}", paymentHandler.Get).Methods("GET")
	api.HandleFunc("/payments/{ticket_number}/ticket", paymentHandler.Ticket).Methods("GET")

	// Reports
	api.HandleFunc("/reports/charts/{view}", reportHandler.Chart).Methods("GET")
	api.HandleFunc("/reports/charts/{view}/pdf", reportHandler.ChartPDF).Methods("GET")

	return r
}
