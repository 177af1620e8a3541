package entities

// Session carries the resolved identity of the current user. Authentication
// itself is external; workflows receive a Session explicitly instead of
// reading ambient globals.
type Session struct {
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	ClinicID *string `json:"clinic_id,omitempty"`
}

// IsValid reports whether the session resolves to a concrete user.
func (s Session) IsValid() bool {
	return s.UserID != ""
}
