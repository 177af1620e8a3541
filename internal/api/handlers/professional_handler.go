package handlers

import (
	"net/http"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
)

// ProfessionalHandler serves the professional directory endpoints
type ProfessionalHandler struct {
	professionals repositories.ProfessionalRepository
}

// NewProfessionalHandler creates a new professional handler
func NewProfessionalHandler(professionals repositories.ProfessionalRepository) *ProfessionalHandler {
	return &ProfessionalHandler{professionals: professionals}
}

// Get retrieves a single professional
// GET /api/professionals/{id}
func (h *ProfessionalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	professional, err := h.professionals.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, professional)
}

// List retrieves professionals filtered by specialty and clinic
// GET /api/professionals?specialty=&clinic_id=
func (h *ProfessionalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ProfessionalFilter{
		Specialty: r.URL.Query().Get("specialty"),
		ClinicID:  r.URL.Query().Get("clinic_id"),
		Limit:     queryInt(r, "limit", 50),
		Offset:    queryInt(r, "offset", 0),
	}
	if r.URL.Query().Get("active") != "false" {
		active := true
		filter.IsActive = &active
	}

	list, err := h.professionals.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"professionals": list,
		"count":         len(list),
	})
}
