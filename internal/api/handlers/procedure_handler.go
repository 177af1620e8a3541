package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// ProcedureHandler serves the procedure catalog endpoints
type ProcedureHandler struct {
	procedures repositories.ProcedureRepository
}

// NewProcedureHandler creates a new procedure handler
func NewProcedureHandler(procedures repositories.ProcedureRepository) *ProcedureHandler {
	return &ProcedureHandler{procedures: procedures}
}

// Get retrieves a single procedure
// GET /api/procedures/{id}
func (h *ProcedureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	procedure, err := h.procedures.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, procedure)
}

// ListByProfessional retrieves the procedures a professional offers.
// Patients only ever see active procedures; pass active=false to include
// retired ones on the clinic side.
// GET /api/professionals/{id}/procedures
func (h *ProcedureHandler) ListByProfessional(w http.ResponseWriter, r *http.Request) {
	professionalID := r.PathValue("id")
	if professionalID == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	filter := repositories.ProcedureFilter{
		Limit:  queryInt(r, "limit", 100),
		Offset: queryInt(r, "offset", 0),
	}
	if r.URL.Query().Get("active") != "false" {
		active := true
		filter.IsActive = &active
	}

	list, err := h.procedures.ListByProfessional(r.Context(), professionalID, filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"procedures": list,
		"count":      len(list),
	})
}

type procedureRequest struct {
	ProfessionalID  string  `json:"professional_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Color           string  `json:"color"`
	BufferMinutes   int     `json:"buffer_minutes"`
	IsActive        *bool   `json:"is_active"`
}

func (req *procedureRequest) validate() map[string]string {
	fields := make(map[string]string)
	if req.ProfessionalID == "" {
		fields["professional_id"] = "professional is required"
	}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.DurationMinutes <= 0 {
		fields["duration_minutes"] = "duration must be positive"
	}
	if req.BufferMinutes < 0 {
		fields["buffer_minutes"] = "buffer cannot be negative"
	}
	return fields
}

// Create registers a new procedure for a professional
// POST /api/procedures
func (h *ProcedureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req procedureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		respondWithAppError(w, apperrors.NewFieldValidationError("invalid procedure", fields))
		return
	}

	now := time.Now().UTC()
	procedure := &entities.Procedure{
		ID:              uuid.New().String(),
		ProfessionalID:  req.ProfessionalID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Color:           req.Color,
		BufferMinutes:   req.BufferMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IsActive != nil {
		procedure.IsActive = *req.IsActive
	}

	if err := h.procedures.Create(r.Context(), procedure); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, procedure)
}

// Update modifies an existing procedure. Existing appointments keep the
// duration they were booked with.
// PUT /api/procedures/{id}
func (h *ProcedureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	var req procedureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	procedure, err := h.procedures.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if req.Name != "" {
		procedure.Name = req.Name
	}
	if req.DurationMinutes > 0 {
		procedure.DurationMinutes = req.DurationMinutes
	}
	if req.Price > 0 {
		procedure.Price = req.Price
	}
	if req.Color != "" {
		procedure.Color = req.Color
	}
	if req.BufferMinutes >= 0 {
		procedure.BufferMinutes = req.BufferMinutes
	}
	if req.IsActive != nil {
		procedure.IsActive = *req.IsActive
	}
	procedure.UpdatedAt = time.Now().UTC()

	if err := h.procedures.Update(r.Context(), procedure); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, procedure)
}

// Delete removes a procedure from the catalog
// DELETE /api/procedures/{id}
func (h *ProcedureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	if err := h.procedures.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
