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

type OnboardingHandler struct {
	onboardingUsecase usecase.OnboardingUsecase
	validator         *validator.CustomValidator
}

func NewOnboardingHandler(onboardingUsecase usecase.OnboardingUsecase, validator *validator.CustomValidator) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingUsecase: onboardingUsecase,
		validator:         validator,
	}
}

// Complete handles POST /api/onboarding
// @Summary Complete onboarding
// @Description Sets the phone, marks the user onboarded and, for doctors, upserts a pending doctor profile
// @Tags Onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.OnboardingRequest true "Onboarding Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/onboarding [post]
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req dto.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.onboardingUsecase.Complete(r.Context(), principal.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingDoctorFields),
			errors.Is(err, usecase.ErrVerificationRequired),
			errors.Is(err, usecase.ErrInvalidRole):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrUserNotFound):
			response.Unauthorized(w, "Unauthorized")
		default:
			response.InternalServerError(w, "Failed to complete onboarding")
		}
		return
	}

	response.Success(w, http.StatusOK, "Onboarding completed successfully", result)
}

// Status is the page data for /onboarding
func (h *OnboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	result, err := h.onboardingUsecase.GetStatus(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			response.Unauthorized(w, "Unauthorized")
		default:
			response.InternalServerError(w, "Failed to get onboarding status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Onboarding status retrieved successfully", result)
}
