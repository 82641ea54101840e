package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
	"go-medical-marketplace/pkg/validator"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

// Submit handles POST /api/doctors/{id}/reviews
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.Submit(r.Context(), principal.UserID, doctorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRating):
			response.BadRequest(w, "Rating must be between 1 and 5")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.NotFound(w, "Patient profile not found")
		default:
			response.InternalServerError(w, "Failed to submit review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review submitted successfully", review)
}

func (h *ReviewHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	reviews, err := h.reviewUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get reviews")
		return
	}

	response.Success(w, http.StatusOK, "Reviews retrieved successfully", reviews)
}
