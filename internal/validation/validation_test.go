package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parking-backend/internal/models"
)

func validIntake() models.CreateParkingRequest {
	return models.CreateParkingRequest{
		CategoryID:     1,
		SlotNumber:     3,
		CustomerName:   "Ravi Kumar",
		VehicleNumber:  "MH-12-AB-1234",
		ContactNumber:  "9876543210",
		IdentityNumber: "123456789012",
		DurationHours:  3,
	}
}

func TestStructAcceptsValidIntake(t *testing.T) {
	req := validIntake()
	assert.NoError(t, Struct(req))

	req.VehicleNumber = "KA-01-C-0001"
	assert.NoError(t, Struct(req))

	req.DurationHours = 999
	assert.NoError(t, Struct(req))
}

func TestStructReportsFieldMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.CreateParkingRequest)
		field  string
		msg    string
	}{
		{"name with digits", func(r *models.CreateParkingRequest) { r.CustomerName = "R2D2" }, "customer_name", "Customer Name should contain only alphabets!"},
		{"blank name", func(r *models.CreateParkingRequest) { r.CustomerName = "   " }, "customer_name", "Customer Name should contain only alphabets!"},
		{"vehicle without dashes", func(r *models.CreateParkingRequest) { r.VehicleNumber = "AB1234" }, "vehicle_number", "Vehicle Number format: CC-NN-C-NNNN or CC-NN-CC-NNNN"},
		{"vehicle three letters", func(r *models.CreateParkingRequest) { r.VehicleNumber = "MH-12-ABC-1234" }, "vehicle_number", "Vehicle Number format: CC-NN-C-NNNN or CC-NN-CC-NNNN"},
		{"short contact", func(r *models.CreateParkingRequest) { r.ContactNumber = "12345" }, "contact_number", "Contact Number should be exactly 10 digits!"},
		{"identity with letters", func(r *models.CreateParkingRequest) { r.IdentityNumber = "12345678901A" }, "identity_number", "Aadhar Number must be exactly 12 digits!"},
		{"zero hours", func(r *models.CreateParkingRequest) { r.DurationHours = 0 }, "duration_hours", "Parking Hours should be a 3-digit number (max 999)!"},
		{"too many hours", func(r *models.CreateParkingRequest) { r.DurationHours = 1000 }, "duration_hours", "Parking Hours should be a 3-digit number (max 999)!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validIntake()
			tc.mutate(&req)

			err := Struct(req)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.msg, ve.Message)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestStructReportsFirstFailingField(t *testing.T) {
	req := validIntake()
	req.CustomerName = "123"
	req.ContactNumber = "1"

	err := Struct(req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_name", ve.Field)
}

func TestSlotCategoryRequest(t *testing.T) {
	assert.NoError(t, Struct(models.SlotCategoryRequest{Name: "Two Wheeler", Fare: 0, Capacity: 5}))

	err := Struct(models.SlotCategoryRequest{Name: "Bus", Fare: 10, Capacity: 5})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	err = Struct(models.SlotCategoryRequest{Name: "Two Wheeler", Fare: -1, Capacity: 5})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fare", ve.Field)

	err = Struct(models.SlotCategoryRequest{Name: "Two Wheeler", Fare: 1, Capacity: 0})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "capacity", ve.Field)
}

func TestPayRequestMethod(t *testing.T) {
	assert.NoError(t, Struct(models.PayRequest{Method: models.PaymentMethodCard, Confirm: true}))

	err := Struct(models.PayRequest{Method: "upi"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "method", ve.Field)
}

func TestIsPersonName(t *testing.T) {
	assert.True(t, IsPersonName("Asha"))
	assert.True(t, IsPersonName("Asha  Rani"))
	assert.False(t, IsPersonName(""))
	assert.False(t, IsPersonName("Asha-Rani"))
}
