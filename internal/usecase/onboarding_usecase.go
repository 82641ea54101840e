package usecase

import (
	"context"
	"errors"
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

const defaultDoctorName = "Doctor"

var (
	ErrMissingDoctorFields  = errors.New("license, specialization, district and experience are required for doctors")
	ErrVerificationRequired = errors.New("verification document is required for doctors")
	ErrInvalidRole          = errors.New("role must be PATIENT or DOCTOR")
)

type OnboardingUsecase interface {
	Complete(ctx context.Context, userID uuid.UUID, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*dto.OnboardingResponse, error)
}

type onboardingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	publisher    service.EventPublisher
}

func NewOnboardingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) OnboardingUsecase {
	return &onboardingUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

func validateDoctorOnboarding(req *dto.OnboardingRequest) error {
	if strings.TrimSpace(req.License) == "" ||
		strings.TrimSpace(req.Specialization) == "" ||
		strings.TrimSpace(req.District) == "" ||
		strings.TrimSpace(req.Experience) == "" {
		return ErrMissingDoctorFields
	}
	if strings.TrimSpace(req.VerificationURL) == "" {
		return ErrVerificationRequired
	}
	return nil
}

// Complete stores the phone, marks the user onboarded and, for doctors,
// upserts a Pending profile. Missing doctor fields fail before any write.
func (u *onboardingUsecase) Complete(ctx context.Context, userID uuid.UUID, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error) {
	role := entity.Role(req.Role)
	if role != entity.RolePatient && role != entity.RoleDoctor {
		return nil, ErrInvalidRole
	}
	if role == entity.RoleDoctor {
		if err := validateDoctorOnboarding(req); err != nil {
			return nil, err
		}
	}

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

	phone := strings.TrimSpace(req.Phone)
	user.Phone = &phone
	user.IsOnboarded = true

	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	var doctor *entity.Doctor
	if role == entity.RoleDoctor {
		name := user.Name
		if name == "" {
			name = defaultDoctorName
		}
		license := strings.TrimSpace(req.License)
		verificationURL := strings.TrimSpace(req.VerificationURL)

		doctor = &entity.Doctor{
			UserID:          &user.ID,
			Name:            name,
			Specialization:  strings.TrimSpace(req.Specialization),
			District:        strings.TrimSpace(req.District),
			LicenseNumber:   &license,
			VerificationURL: &verificationURL,
			Fees:            int(req.Fees),
			Experience:      strings.TrimSpace(req.Experience),
			Description:     req.Description,
			Image:           user.Image,
			Phone:           &phone,
		}

		if err := u.doctorRepo.Upsert(tx, doctor); err != nil {
			u.log.Warnf("Failed to upsert doctor profile: %+v", err)
			return nil, err
		}

		doctor, err = u.doctorRepo.FindByUserID(tx, user.ID)
		if err != nil {
			u.log.Warnf("Failed to reload doctor profile: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionUserOnboard, "user", user.ID.String(), nil, map[string]interface{}{
		"role":  req.Role,
		"phone": phone,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if doctor != nil {
		service.Publish(ctx, u.log, u.publisher, service.EventDoctorApplied, service.DoctorEvent{
			DoctorID:   doctor.ID,
			UserID:     doctor.UserID,
			Status:     string(doctor.Status),
			OccurredAt: time.Now(),
		})
	}

	return &dto.OnboardingResponse{
		User:   converter.UserToResponse(user),
		Doctor: converter.DoctorToResponse(doctor),
	}, nil
}

// GetStatus returns the user with any existing doctor profile, used to
// prefill the onboarding page
func (u *onboardingUsecase) GetStatus(ctx context.Context, userID uuid.UUID) (*dto.OnboardingResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	doctor, err := u.doctorRepo.FindByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}

	return &dto.OnboardingResponse{
		User:   converter.UserToResponse(user),
		Doctor: converter.DoctorToResponse(doctor),
	}, nil
}
