package usecase

import (
	"context"
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

const recentPatientAppointments = 5

type AdminUsecase interface {
	GetStats(ctx context.Context) (*dto.AdminStatsResponse, error)
	ListDoctors(ctx context.Context, status entity.DoctorStatus) (*dto.DoctorListResponse, error)
	ApproveDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	TerminateDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) error
	ListAppointments(ctx context.Context, doctorID *uuid.UUID) ([]dto.AppointmentResponse, error)
	GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientDetailResponse, error)
}

type adminUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	reviewRepo      repository.ReviewRepository
	auditService    service.AuditService
	publisher       service.EventPublisher
}

func NewAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) AdminUsecase {
	return &adminUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		reviewRepo:      reviewRepo,
		auditService:    auditService,
		publisher:       publisher,
	}
}

// GetStats is recomputed from all doctors and their appointments on every call
func (u *adminUsecase) GetStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	doctors, err := u.doctorRepo.FindAllWithAppointments(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load doctors with appointments: %+v", err)
		return nil, err
	}

	return converter.AdminStatsToResponse(entity.ComputeAdminStats(doctors)), nil
}

func (u *adminUsecase) ListDoctors(ctx context.Context, status entity.DoctorStatus) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), status)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// ApproveDoctor activates the profile and promotes the owning user to DOCTOR.
// Approving an Active doctor writes nothing.
func (u *adminUsecase) ApproveDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldStatus := doctor.Status
	if !doctor.Approve() {
		return converter.DoctorToResponse(doctor), nil
	}

	if err := u.doctorRepo.UpdateStatus(tx, doctor.ID, doctor.Status); err != nil {
		u.log.Warnf("Failed to approve doctor: %+v", err)
		return nil, err
	}

	if doctor.HasOwner() {
		if err := u.userRepo.UpdateRole(tx, *doctor.UserID, entity.RoleDoctor); err != nil {
			u.log.Warnf("Failed to grant doctor role: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionDoctorApprove, "doctor", doctor.ID.String(),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": doctor.Status},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	service.Publish(ctx, u.log, u.publisher, service.EventDoctorApproved, service.DoctorEvent{
		DoctorID:   doctor.ID,
		UserID:     doctor.UserID,
		Status:     string(doctor.Status),
		OccurredAt: time.Now(),
	})

	return converter.DoctorToResponse(doctor), nil
}

// TerminateDoctor removes appointments, then reviews, then the doctor, all or
// nothing.
func (u *adminUsecase) TerminateDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	appointments, err := u.appointmentRepo.DeleteByDoctorID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to delete appointments of doctor %s: %+v", doctor.ID, err)
		return err
	}

	reviews, err := u.reviewRepo.DeleteByDoctorID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to delete reviews of doctor %s: %+v", doctor.ID, err)
		return err
	}

	deleted, err := u.doctorRepo.Delete(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctor.ID, err)
		return err
	}
	if deleted == 0 {
		return ErrDoctorNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &adminID, entity.AuditActionDoctorTerminate, "doctor", doctor.ID.String(), map[string]interface{}{
		"name":                 doctor.Name,
		"deleted_appointments": appointments,
		"deleted_reviews":      reviews,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	service.Publish(ctx, u.log, u.publisher, service.EventDoctorTerminated, service.DoctorEvent{
		DoctorID:   doctor.ID,
		UserID:     doctor.UserID,
		Status:     "Deleted",
		OccurredAt: time.Now(),
	})

	return nil
}

func (u *adminUsecase) ListAppointments(ctx context.Context, doctorID *uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *adminUsecase) GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientDetailResponse, error) {
	patient, err := u.patientRepo.FindWithRecentAppointments(u.db.WithContext(ctx), patientID, recentPatientAppointments)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}
	return converter.PatientToDetail(patient), nil
}
