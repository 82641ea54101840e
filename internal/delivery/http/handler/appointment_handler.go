package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
	"go-medical-marketplace/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Book handles POST /api/appointments. It is mounted with optional
// authentication and answers 401 before reading the body.
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Booking"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthenticated):
			response.Unauthorized(w, "Unauthorized")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrInvalidDate):
			response.BadRequest(w, "Invalid appointment date")
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// ListMine returns the caller's appointments as a patient
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListMine(r.Context(), principal.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Summary Respond to an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.RespondAppointmentRequest true "Action"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/appointments/{id}/respond [post]
func (h *AppointmentHandler) Respond(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.RespondAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Respond(r.Context(), principal.UserID, appointmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		case errors.Is(err, usecase.ErrNotAppointmentOwner):
			response.Forbidden(w, "Appointment does not belong to you")
		case errors.Is(err, usecase.ErrInvalidTransition):
			response.Conflict(w, "Appointment can no longer be updated")
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}
