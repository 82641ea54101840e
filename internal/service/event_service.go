package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Routing keys on the marketplace topic exchange
const (
	EventAppointmentRequested = "appointment.requested"
	EventAppointmentConfirmed = "appointment.confirmed"
	EventAppointmentCancelled = "appointment.cancelled"
	EventDoctorApplied        = "doctor.applied"
	EventDoctorApproved       = "doctor.approved"
	EventDoctorTerminated     = "doctor.terminated"
	EventReviewSubmitted      = "review.submitted"
)

// EventPublisher delivers domain events after the owning transaction commits.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

type AppointmentEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type DoctorEvent struct {
	DoctorID   uuid.UUID  `json:"doctor_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Status     string     `json:"status"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type ReviewEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	Rating     int       `json:"rating"`
	NewAverage float64   `json:"new_average"`
	OccurredAt time.Time `json:"occurred_at"`
}

// logPublisher is used when no broker is configured
type logPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) EventPublisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	p.log.WithFields(logrus.Fields{
		"routing_key": routingKey,
		"payload":     payload,
	}).Debug("Domain event")
	return nil
}

// Publish sends an event and only logs delivery failures.
func Publish(ctx context.Context, log *logrus.Logger, publisher EventPublisher, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishJSON(ctx, routingKey, payload); err != nil {
		log.Warnf("Failed to publish %s event: %+v", routingKey, err)
	}
}
