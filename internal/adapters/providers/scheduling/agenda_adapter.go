package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	domsched "github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// AgendaAdapter implements SchedulingProvider against the agenda HTTP API,
// which owns the authoritative slot state.
type AgendaAdapter struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

// NewAgendaAdapter creates a new agenda API adapter
func NewAgendaAdapter(baseURL, apiKey string) providers.SchedulingProvider {
	return &AgendaAdapter{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// FetchAvailability returns per-day slot lists for a professional
func (a *AgendaAdapter) FetchAvailability(ctx context.Context, professionalID string, from domsched.Date, numDays int) ([]entities.AvailabilityDay, error) {
	if numDays > providers.MaxAvailabilityDays {
		numDays = providers.MaxAvailabilityDays
	}

	url := fmt.Sprintf("%s/professionals/%s/availability?from=%s&days=%d",
		a.baseURL, professionalID, from.String(), numDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build availability request", err)
	}
	a.addHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("agenda api unreachable", err)
	}
	defer resp.Body.Close()

	if err := a.checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var result struct {
		Days []entities.AvailabilityDay `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewExternalError("failed to decode availability response", err)
	}

	return result.Days, nil
}

// CreateAppointment books the appointment on the agenda
func (a *AgendaAdapter) CreateAppointment(ctx context.Context, appointment *entities.Appointment) (string, error) {
	payload := map[string]interface{}{
		"professional_id":  appointment.ProfessionalID,
		"procedure_id":     appointment.ProcedureID,
		"scheduled_at":     appointment.ScheduledAt.Format("2006-01-02T15:04"),
		"duration_minutes": appointment.DurationMinutes,
		"patient_name":     appointment.PatientName,
		"patient_phone":    appointment.PatientPhone,
		"notes":            appointment.Notes,
	}

	resp, err := a.post(ctx, fmt.Sprintf("%s/appointments", a.baseURL), payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := a.checkStatus(resp, http.StatusCreated); err != nil {
		return "", err
	}

	var result struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.NewExternalError("failed to decode booking response", err)
	}

	return result.EventID, nil
}

// RescheduleAppointment moves an existing appointment to a new start
func (a *AgendaAdapter) RescheduleAppointment(ctx context.Context, externalID string, newStart string, reason string) error {
	payload := map[string]string{
		"scheduled_at": newStart,
		"reason":       reason,
	}

	resp, err := a.post(ctx, fmt.Sprintf("%s/appointments/%s/reschedule", a.baseURL, externalID), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return a.checkStatus(resp, http.StatusOK)
}

// CancelAppointment cancels an appointment
func (a *AgendaAdapter) CancelAppointment(ctx context.Context, externalID string, reason string) error {
	payload := map[string]string{
		"reason": reason,
	}

	resp, err := a.post(ctx, fmt.Sprintf("%s/appointments/%s/cancellation", a.baseURL, externalID), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The agenda answers 200 for a fresh cancellation and 410 when the
	// appointment was already cancelled; both count as success.
	if resp.StatusCode == http.StatusGone {
		return nil
	}
	return a.checkStatus(resp, http.StatusOK)
}

func (a *AgendaAdapter) post(ctx context.Context, url string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request", err)
	}
	a.addHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("agenda api unreachable", err)
	}
	return resp, nil
}

// checkStatus maps the agenda's error statuses onto the application error
// taxonomy. 409 means the slot was taken between fetch and submit.
func (a *AgendaAdapter) checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return apperrors.NewConflictError("slot is no longer available")
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("agenda event not found")
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewUnauthorizedError("agenda api rejected credentials")
	default:
		return apperrors.NewExternalError(fmt.Sprintf("agenda api error: status %d", resp.StatusCode), nil)
	}
}

func (a *AgendaAdapter) addHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
	req.Header.Set("Content-Type", "application/json")
}
