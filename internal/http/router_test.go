package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parking-backend/internal/auth"
	"parking-backend/internal/config"
	"parking-backend/internal/handlers"
	"parking-backend/internal/health"
	"parking-backend/internal/middleware"
	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
	"parking-backend/internal/services"
	"parking-backend/internal/timeutil"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, timeutil.IST)

type testServer struct {
	mock   pgxmock.PgxPoolIface
	router *mux.Router
	jwt    *auth.JWTManager
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	cfg := &config.Config{}
	cfg.JWT.Secret = "router-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "parking-backend"
	jwtManager := auth.NewJWTManager(cfg)
	clock := timeutil.FixedClock{T: now}

	categoryRepo := repositories.NewSlotCategoryRepository(mock)
	parkingRepo := repositories.NewParkingRepository(mock)
	paymentRepo := repositories.NewPaymentRepository(mock)
	ledgerRepo := repositories.NewLedgerRepository(mock)
	reportRepo := repositories.NewReportRepository(mock)
	userRepo := repositories.NewUserRepository(mock)

	router := NewRouter(
		handlers.NewAuthHandler(services.NewUserService(userRepo, jwtManager)),
		handlers.NewHealthHandler(health.NewHealthChecker(mock, false)),
		handlers.NewSlotCategoryHandler(services.NewSlotCategoryService(categoryRepo, parkingRepo)),
		handlers.NewOccupancyHandler(services.NewOccupancyService(categoryRepo, parkingRepo, clock)),
		handlers.NewParkingHandler(services.NewIntakeService(categoryRepo, parkingRepo, clock)),
		handlers.NewSettlementHandler(services.NewSettlementService(paymentRepo, clock)),
		handlers.NewPaymentHandler(services.NewLedgerService(ledgerRepo, "₹"), services.NewTicketRenderer("₹", nil)),
		handlers.NewReportHandler(services.NewReportService(reportRepo, clock)),
		middleware.NewAuthMiddleware(jwtManager, userRepo),
	)

	token, err := jwtManager.GenerateToken(&models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)
	return &testServer{mock: mock, router: router, jwt: jwtManager, token: token}
}

var userColumns = []string{"id", "username", "password_hash", "is_active", "created_at", "updated_at"}

// expectOperator is the user lookup the auth middleware does per request
func (s *testServer) expectOperator(hash string) {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=$1")).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(1, "admin", hash, true, now, now))
}

func (s *testServer) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

var categoryColumns = []string{"id", "name", "fare", "capacity", "is_active", "created_at", "updated_at"}

func (s *testServer) expectCategory(id int, fare float64, capacity int) {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM slot_categories WHERE id=$1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(categoryColumns).AddRow(id, "Four Wheeler", fare, capacity, true, now, now))
}

func intakeBody(vehicle string) string {
	return `{"category_id":2,"slot_number":7,"customer_name":"Ravi Kumar","vehicle_number":"` + vehicle +
		`","contact_number":"9876543210","identity_number":"123456789012","duration_hours":3}`
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.mock.ExpectPing()
	rec = s.do(http.MethodGet, "/health/ready", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	rec = s.do(http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/occupancy", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.token = "not-a-token"
	rec = s.do(http.MethodGet, "/api/occupancy", "", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)

	s.expectOperator(hash)
	rec := s.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"letmein"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decode(t, rec)["token"].(string)
	claims, err := s.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	s.expectOperator(hash)
	rec = s.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"wrong"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListActiveCategories(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM slot_categories WHERE is_active = TRUE ORDER BY id")).
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(1, "Two Wheeler", 10.0, 20, true, now, now).
			AddRow(2, "Four Wheeler", 50.0, 10, true, now, now))

	rec := s.do(http.MethodGet, "/api/slot-categories?active=true", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []models.SlotCategory
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "Four Wheeler", categories[1].Name)
}

func TestIntakeCreatesTicket(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.expectCategory(2, 50, 10)
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parking_entries")).
		WithArgs(2, 7).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO parking_entries")).
		WithArgs(2, 7, "Ravi Kumar", "MH-12-AB-1234", "9876543210", "123456789012", 3,
			pgxmock.AnyArg(), pgxmock.AnyArg(), models.EntryStatusParked).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(41, now, now))
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ticket_counters")).
		WithArgs(25).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(41, "PK-25-0001", 150.0, models.PaymentStatusUnpaid).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))
	s.mock.ExpectCommit()

	rec := s.do(http.MethodPost, "/api/parking", intakeBody("mh-12-ab-1234"), true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res models.IntakeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "PK-25-0001", res.Payment.TicketNumber)
	assert.Equal(t, 150.0, res.Payment.Amount)
	assert.Equal(t, models.Next{Screen: models.ScreenSettlement, ParkingID: 41}, res.Next)
}

func TestIntakeRejectsBadVehicleNumber(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")

	rec := s.do(http.MethodPost, "/api/parking", intakeBody("AB1234"), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "vehicle_number", decode(t, rec)["field"])
}

func TestIntakeOccupiedSlotConflicts(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.expectCategory(2, 50, 10)
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parking_entries")).
		WithArgs(2, 7).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	rec := s.do(http.MethodPost, "/api/parking", intakeBody("MH-12-AB-1234"), true)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSelectOccupiedAsksForConfirmation(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.expectCategory(2, 50, 10)
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parking_entries")).
		WithArgs(2, 4).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	rec := s.do(http.MethodPost, "/api/occupancy/2/slots/4", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.SelectResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, models.ScreenConfirmFree, res.Next.Screen)
	assert.False(t, res.Freed)
}

func TestPayRequiresConfirm(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")

	rec := s.do(http.MethodPost, "/api/settlements/41/pay", `{"method":"cash"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "confirm", decode(t, rec)["field"])
}

var ledgerColumns = []string{"ticket_number", "id", "customer_name", "vehicle_number", "contact_number",
	"identity_number", "name", "slot_number", "entry_time", "expected_exit", "amount", "status", "method"}

func (s *testServer) ledgerRows() *pgxmock.Rows {
	cash := models.PaymentMethodCash
	return pgxmock.NewRows(ledgerColumns).
		AddRow("PK-25-0001", 41, "Ravi Kumar", "MH-12-AB-1234", "9876543210", "123456789012", "Four Wheeler", 7,
			now, now.Add(3*time.Hour), 150.0, models.PaymentStatusPaid, &cash)
}

func TestTicketFormats(t *testing.T) {
	s := newTestServer(t)

	s.expectOperator("")
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE p.ticket_number=$1")).WithArgs("PK-25-0001").WillReturnRows(s.ledgerRows())
	rec := s.do(http.MethodGet, "/api/payments/pk-25-0001/ticket?format=html", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Thank You for Choosing Us!")

	s.expectOperator("")
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE p.ticket_number=$1")).WithArgs("PK-25-0001").WillReturnRows(s.ledgerRows())
	rec = s.do(http.MethodGet, "/api/payments/PK-25-0001/ticket?format=pdf", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	s.expectOperator("")
	rec = s.do(http.MethodGet, "/api/payments/PK-25-0001/ticket?format=docx", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.expectOperator("")
	rec = s.do(http.MethodGet, "/api/payments/TICKET-1/ticket", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ticket_number", decode(t, rec)["field"])
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.id DESC")).WillReturnRows(s.ledgerRows())

	rec := s.do(http.MethodGet, "/api/payments/export.csv", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "PK-25-0001,Ravi Kumar")
}

func TestReportRejectsUnknownView(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")

	rec := s.do(http.MethodGet, "/api/reports/charts/histogram", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "view", decode(t, rec)["field"])

	s.expectOperator("")
	rec = s.do(http.MethodGet, "/api/reports/charts/revenue?from=2025-03-10&to=2025-03-01", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	s := newTestServer(t)
	s.expectOperator("")
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM slot_categories WHERE id=$1")).
		WithArgs(99).
		WillReturnRows(pgxmock.NewRows(categoryColumns))

	rec := s.do(http.MethodGet, "/api/occupancy/99", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
