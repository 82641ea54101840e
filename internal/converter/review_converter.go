package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	return &dto.ReviewResponse{
		ID:        review.ID,
		DoctorID:  review.DoctorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		Patient:   PatientToSummary(review.Patient),
	}
}

func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i])
	}
	return responses
}
