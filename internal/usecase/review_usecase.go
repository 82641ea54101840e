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

var (
	ErrPatientProfileNotFound = errors.New("patient profile not found")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
)

type ReviewUsecase interface {
	Submit(ctx context.Context, userID uuid.UUID, doctorID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error)
}

type reviewUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	patientRepo  repository.PatientRepository
	reviewRepo   repository.ReviewRepository
	auditService service.AuditService
	publisher    service.EventPublisher
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) ReviewUsecase {
	return &reviewUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		patientRepo:  patientRepo,
		reviewRepo:   reviewRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// Submit stores the review and recomputes the doctor's mean rating and count
// in the same transaction.
func (u *reviewUsecase) Submit(ctx context.Context, userID uuid.UUID, doctorID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	if req.Rating < entity.MinRating || req.Rating > entity.MaxRating {
		return nil, ErrInvalidRating
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	review := &entity.Review{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := u.reviewRepo.Create(tx, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	ratings, err := u.reviewRepo.RatingsByDoctorID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to load ratings for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}
	average := entity.AverageRating(ratings)

	if err := u.doctorRepo.UpdateRating(tx, doctor.ID, average, len(ratings)); err != nil {
		u.log.Warnf("Failed to update doctor rating: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionReviewCreate, "review", review.ID.String(), map[string]interface{}{
		"doctor_id": doctor.ID.String(),
		"rating":    review.Rating,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	service.Publish(ctx, u.log, u.publisher, service.EventReviewSubmitted, service.ReviewEvent{
		ReviewID:   review.ID,
		DoctorID:   doctor.ID,
		Rating:     review.Rating,
		NewAverage: average,
		OccurredAt: time.Now(),
	})

	review.Patient = patient
	return converter.ReviewToResponse(review), nil
}

func (u *reviewUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error) {
	reviews, err := u.reviewRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find reviews for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.ReviewsToResponses(reviews), nil
}
