package handlers

import (
	"net/http"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

// sessionFromRequest resolves the caller identity from gateway headers.
// Authentication happens upstream; the API trusts the forwarded identity.
func sessionFromRequest(r *http.Request) entities.Session {
	session := entities.Session{
		UserID: r.Header.Get("X-User-ID"),
		Role:   r.Header.Get("X-User-Role"),
	}
	if clinicID := r.Header.Get("X-Clinic-ID"); clinicID != "" {
		session.ClinicID = &clinicID
	}
	return session
}
