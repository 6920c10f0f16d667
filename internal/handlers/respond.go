package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"parking-backend/internal/repositories"
	"parking-backend/internal/services"
	"parking-backend/internal/validation"
	"parking-backend/pkg/utils"
)

// writeError maps service errors to status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSON(w, http.StatusBadRequest, ve)
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrSlotOccupied):
		utils.Error(w, http.StatusConflict, "Slot is already occupied")
	case errors.Is(err, repositories.ErrAlreadyPaid):
		utils.Error(w, http.StatusConflict, "Payment already settled")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "Invalid username or password")
	default:
		log.Printf("[API] %s %s failed: %v", r.Method, r.URL.Path, err)
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads the request body into dst. An empty body is allowed
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	utils.Error(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// pathID reads a positive integer path variable
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		utils.JSON(w, http.StatusBadRequest, validation.New(name, "Must be a positive number"))
		return 0, false
	}
	return id, true
}
