package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-medical-marketplace/internal/converter"
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/domain/repository"
	"go-medical-marketplace/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated     = errors.New("unauthorized")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotAppointmentOwner = errors.New("appointment does not belong to you")
	ErrInvalidTransition   = entity.ErrInvalidTransition
	ErrInvalidDate         = entity.ErrInvalidDate
)

type AppointmentUsecase interface {
	Book(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error)
	Respond(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID, req *dto.RespondAppointmentRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	appointmentRepo  repository.AppointmentRepository
	notificationRepo repository.NotificationRepository
	auditService     service.AuditService
	publisher        service.EventPublisher
	now              func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		auditService:     auditService,
		publisher:        publisher,
		now:              time.Now,
	}
}

// resolvePatient finds the caller's patient profile or creates it from the user
func (u *appointmentUsecase) resolvePatient(tx *gorm.DB, principal *entity.Principal) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByUserID(tx, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user ID: %+v", err)
		return nil, err
	}
	if patient != nil {
		return patient, nil
	}

	name := principal.Name
	if name == "" {
		name = entity.UnknownPatientName
	}
	userID := principal.UserID
	patient = &entity.Patient{
		UserID: &userID,
		Name:   name,
		Email:  principal.Email,
		Image:  principal.Image,
	}
	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}
	return patient, nil
}

// Book creates a pending appointment and notifies the doctor's account. A
// failed notification does not undo the booking.
func (u *appointmentUsecase) Book(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	date, err := entity.NormalizeDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil || !doctor.IsActive() {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.resolvePatient(tx, principal)
	if err != nil {
		return nil, err
	}

	patientName := strings.TrimSpace(req.PatientName)
	if patientName == "" {
		patientName = principal.Name
	}
	if patientName == "" {
		patientName = entity.UnknownPatientName
	}

	var contact *string
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		contact = &phone
	} else if principal.Phone != nil && *principal.Phone != "" {
		phone := *principal.Phone
		contact = &phone
	}

	appt := &entity.Appointment{
		DoctorID:      doctor.ID,
		PatientID:     patient.ID,
		PatientName:   patientName,
		Date:          date,
		Time:          strings.TrimSpace(req.Time),
		Contact:       contact,
		Reason:        req.Reason,
		Status:        entity.AppointmentStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}

	if err := u.appointmentRepo.Create(tx, appt); err != nil {
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionAppointmentCreate, "appointment", appt.ID.String(), map[string]interface{}{
		"doctor_id": appt.DoctorID.String(),
		"date":      appt.Date,
		"time":      appt.Time,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if doctor.HasOwner() {
		u.notify(ctx, &entity.Notification{
			UserID:  *doctor.UserID,
			Title:   "New Appointment Request",
			Message: fmt.Sprintf("New booking from %s for %s at %s.", appt.PatientName, appt.Date, appt.Time),
			Type:    entity.NotificationTypeInfo,
		})
	}

	service.Publish(ctx, u.log, u.publisher, service.EventAppointmentRequested, u.appointmentEvent(appt))

	appt.Doctor = doctor
	return converter.AppointmentToResponse(appt), nil
}

func (u *appointmentUsecase) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return []dto.AppointmentResponse{}, nil
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patient.ID, err)
		return nil, err
	}

	return converter.AppointmentsToResponses(appointments), nil
}

// Respond applies the owning doctor's decision. Re-sending the current status
// changes nothing and sends no notification.
func (u *appointmentUsecase) Respond(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID, req *dto.RespondAppointmentRequest) (*dto.AppointmentResponse, error) {
	target := entity.AppointmentStatus(req.Action)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	appt, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.DoctorID != doctor.ID {
		return nil, ErrNotAppointmentOwner
	}

	oldStatus := appt.Status
	changed, err := appt.Respond(target)
	if err != nil {
		return nil, err
	}
	if !changed {
		return converter.AppointmentToResponse(appt), nil
	}

	if err := u.appointmentRepo.UpdateStatus(tx, appt.ID, appt.Status); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentRespond, "appointment", appt.ID.String(),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": appt.Status},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	eventKey := service.EventAppointmentCancelled
	if appt.IsConfirmed() {
		eventKey = service.EventAppointmentConfirmed
		u.notifyConfirmed(ctx, doctor, appt)
	}
	service.Publish(ctx, u.log, u.publisher, eventKey, u.appointmentEvent(appt))

	return converter.AppointmentToResponse(appt), nil
}

func (u *appointmentUsecase) notifyConfirmed(ctx context.Context, doctor *entity.Doctor, appt *entity.Appointment) {
	recipient, err := u.patientUserID(ctx, appt)
	if err != nil {
		u.log.Warnf("Failed to resolve patient account for appointment %s: %+v", appt.ID, err)
		return
	}
	if recipient == nil {
		return
	}

	u.notify(ctx, &entity.Notification{
		UserID:  *recipient,
		Title:   "Appointment Confirmed!",
		Message: ConfirmationMessage(doctor),
		Type:    entity.NotificationTypeSuccess,
	})
}

// patientUserID prefers the patient's user link and falls back to the email
// copy for profiles created before the link existed
func (u *appointmentUsecase) patientUserID(ctx context.Context, appt *entity.Appointment) (*uuid.UUID, error) {
	patient := appt.Patient
	if patient == nil {
		var err error
		patient, err = u.patientRepo.FindByID(u.db.WithContext(ctx), appt.PatientID)
		if err != nil || patient == nil {
			return nil, err
		}
	}
	if patient.UserID != nil {
		return patient.UserID, nil
	}
	if patient.Email == "" {
		return nil, nil
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), patient.Email)
	if err != nil || user == nil {
		return nil, err
	}
	return &user.ID, nil
}

func (u *appointmentUsecase) notify(ctx context.Context, n *entity.Notification) {
	if err := u.notificationRepo.Create(u.db.WithContext(ctx), n); err != nil {
		u.log.Warnf("Failed to create notification: %+v", err)
	}
}

func (u *appointmentUsecase) appointmentEvent(appt *entity.Appointment) service.AppointmentEvent {
	return service.AppointmentEvent{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Status:        string(appt.Status),
		Date:          appt.Date,
		Time:          appt.Time,
		OccurredAt:    u.now(),
	}
}

// ConfirmationMessage is the patient-facing text sent when a doctor confirms
func ConfirmationMessage(doctor *entity.Doctor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dr. %s has confirmed your appointment. Clinic Location: %s.", doctor.Name, doctor.District)
	if doctor.MapsURL != nil && *doctor.MapsURL != "" {
		fmt.Fprintf(&b, " Google Maps: %s", *doctor.MapsURL)
	}
	phone := "N/A"
	if doctor.Phone != nil && *doctor.Phone != "" {
		phone = *doctor.Phone
	}
	fmt.Fprintf(&b, " You can call the doctor at %s.", phone)
	return b.String()
}
