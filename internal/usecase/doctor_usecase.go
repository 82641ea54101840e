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

const featuredDoctorLimit = 8

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorProfileNotFound = errors.New("doctor profile not found")
	ErrApplicationExists     = errors.New("application already submitted")
)

type DoctorUsecase interface {
	Apply(ctx context.Context, userID uuid.UUID, req *dto.ApplyDoctorRequest) (*dto.DoctorResponse, error)
	Search(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error)
	Featured(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DoctorDashboardResponse, error)
	ToggleAvailability(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorSettingsRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	reviewRepo      repository.ReviewRepository
	auditService    service.AuditService
	publisher       service.EventPublisher
	now             func() time.Time
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		reviewRepo:      reviewRepo,
		auditService:    auditService,
		publisher:       publisher,
		now:             time.Now,
	}
}

// Apply creates a Pending profile for a user that has none
func (u *doctorUsecase) Apply(ctx context.Context, userID uuid.UUID, req *dto.ApplyDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := u.doctorRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrApplicationExists
	}

	name := strings.TrimSpace(req.Name)
	specialization := strings.TrimSpace(req.Specialization)
	phone := strings.TrimSpace(req.Phone)

	doctor := &entity.Doctor{
		UserID:         &user.ID,
		Name:           name,
		Specialization: specialization,
		District:       strings.TrimSpace(req.District),
		Fees:           int(req.Fees),
		Experience:     strings.TrimSpace(req.Experience),
		Description:    fmt.Sprintf("Dr. %s is a specialist in %s.", name, specialization),
		Image:          user.Image,
		Status:         entity.DoctorStatusPending,
		IsAvailable:    false,
		Phone:          &phone,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrApplicationExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionDoctorApply, "doctor", doctor.ID.String(), map[string]interface{}{
		"name":           doctor.Name,
		"specialization": doctor.Specialization,
		"district":       doctor.District,
		"fees":           doctor.Fees,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	service.Publish(ctx, u.log, u.publisher, service.EventDoctorApplied, service.DoctorEvent{
		DoctorID:   doctor.ID,
		UserID:     doctor.UserID,
		Status:     string(doctor.Status),
		OccurredAt: u.now(),
	})

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Search(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.Search(u.db.WithContext(ctx), entity.DoctorFilter{
		Specializations: req.Specializations,
		Districts:       req.Districts,
		SearchTerm:      strings.TrimSpace(req.SearchTerm),
		LocationTerm:    strings.TrimSpace(req.LocationTerm),
		MaxFee:          req.MaxFee,
	})
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// Featured lists the top rated active doctors for the home page
func (u *doctorUsecase) Featured(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.Search(u.db.WithContext(ctx), entity.DoctorFilter{Limit: featuredDoctorLimit})
	if err != nil {
		u.log.Warnf("Failed to find featured doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// GetDoctor only exposes Active doctors
func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil || !doctor.IsActive() {
		return nil, ErrDoctorNotFound
	}

	reviews, err := u.reviewRepo.FindByDoctorID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find reviews for doctor %s: %+v", id, err)
		return nil, err
	}

	return &dto.DoctorDetailResponse{
		Doctor:  converter.DoctorToResponse(doctor),
		Reviews: converter.ReviewsToResponses(reviews),
	}, nil
}

func (u *doctorUsecase) findOwnProfile(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	return doctor, nil
}

func (u *doctorUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.findOwnProfile(db, userID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(db, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}

	today := u.now().Format(entity.DateLayout)
	stats := dto.DashboardStats{Rating: doctor.Rating}
	patients := make(map[uuid.UUID]struct{})

	for i := range appointments {
		appt := &appointments[i]
		if appt.Contact == nil && appt.Patient != nil && appt.Patient.User != nil {
			appt.Contact = appt.Patient.User.Phone
		}
		if appt.Date == today {
			stats.TodayCount++
		}
		if appt.IsPending() {
			stats.PendingCount++
		}
		patients[appt.PatientID] = struct{}{}
	}
	stats.TotalPatients = len(patients)

	return &dto.DoctorDashboardResponse{
		Doctor:       converter.DoctorToResponse(doctor),
		Appointments: converter.AppointmentsToResponses(appointments),
		Stats:        stats,
	}, nil
}

func (u *doctorUsecase) ToggleAvailability(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findOwnProfile(tx, userID)
	if err != nil {
		return nil, err
	}

	doctor.ToggleAvailability()
	if err := u.doctorRepo.UpdateAvailability(tx, doctor.ID, doctor.IsAvailable); err != nil {
		u.log.Warnf("Failed to update doctor availability: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// UpdateSettings only changes the fields present in the request
func (u *doctorUsecase) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorSettingsRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findOwnProfile(tx, userID)
	if err != nil {
		return nil, err
	}

	oldDoctor := *doctor

	if req.Description != nil {
		doctor.Description = *req.Description
	}
	if req.Fees != nil {
		if fee, ok := entity.ParseFee(*req.Fees); ok {
			doctor.Fees = fee
		}
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.District != nil {
		doctor.District = *req.District
	}
	if req.Phone != nil {
		phone := *req.Phone
		doctor.Phone = &phone
	}
	if req.MapsURL != nil {
		mapsURL := *req.MapsURL
		doctor.MapsURL = &mapsURL
	}

	if err := u.doctorRepo.UpdateSettings(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor settings: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionDoctorSettings, "doctor", doctor.ID.String(), oldDoctor, doctor); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}
