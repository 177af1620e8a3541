package services

import (
	"context"
	"fmt"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
)

// NotificationService renders and dispatches patient-facing messages about
// appointment changes. Delivery is best effort: callers log failures and
// never fail the underlying booking.
type NotificationService struct {
	sender providers.NotificationSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(sender providers.NotificationSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// NotifyAppointmentChange sends the message matching the lifecycle event.
func (n *NotificationService) NotifyAppointmentChange(ctx context.Context, appointment *entities.Appointment, eventType entities.AppointmentEventType) error {
	if n.sender == nil || appointment.PatientPhone == "" {
		return nil
	}

	when := appointment.ScheduledAt.Format("02/01/2006 15:04")
	var body string
	switch eventType {
	case entities.AppointmentEventCreated:
		body = fmt.Sprintf("Olá %s! Sua consulta foi solicitada para %s. Você receberá a confirmação em breve.", appointment.PatientName, when)
	case entities.AppointmentEventRescheduled:
		body = fmt.Sprintf("Olá %s! Sua consulta foi remarcada para %s.", appointment.PatientName, when)
	case entities.AppointmentEventCancelled:
		body = fmt.Sprintf("Olá %s! Sua consulta de %s foi cancelada.", appointment.PatientName, when)
	default:
		return nil
	}

	_, err := n.sender.SendText(ctx, appointment.PatientPhone, body)
	return err
}
