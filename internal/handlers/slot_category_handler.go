package handlers

import (
	"net/http"

	"parking-backend/internal/models"
	"parking-backend/internal/services"
	"parking-backend/pkg/utils"
)

type SlotCategoryHandler struct {
	Service *services.SlotCategoryService
}

func NewSlotCategoryHandler(s *services.SlotCategoryService) *SlotCategoryHandler {
	return &SlotCategoryHandler{Service: s}
}

// List returns all categories, or only active ones with ?active=true
func (h *SlotCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	categories, err := h.Service.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *SlotCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SlotCategoryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	c, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *SlotCategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *SlotCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.SlotCategoryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	c, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *SlotCategoryHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.SetActiveRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	c, err := h.Service.SetActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}
