package handler

import (
	"errors"
	"net/http"

	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"

	"github.com/google/uuid"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
	}
}

// GetStats returns the aggregate report for the admin dashboard
// @Summary Admin stats
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/admin/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get stats")
		return
	}

	response.Success(w, http.StatusOK, "Stats retrieved successfully", stats)
}

// ListDoctors accepts an optional status filter
func (h *AdminHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	status := entity.DoctorStatus(r.URL.Query().Get("status"))
	switch status {
	case "", entity.DoctorStatusPending, entity.DoctorStatusActive, entity.DoctorStatusInactive, entity.DoctorStatusWarning:
	default:
		response.BadRequest(w, "Invalid doctor status")
		return
	}

	doctors, err := h.adminUsecase.ListDoctors(r.Context(), status)
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// @Summary Approve doctor
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/doctors/{id}/approve [post]
func (h *AdminHandler) ApproveDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.adminUsecase.ApproveDoctor(r.Context(), principal.UserID, doctorID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to approve doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor approved successfully", doctor)
}

// @Summary Terminate doctor
// @Description Deletes the doctor with all of its appointments and reviews
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/doctors/{id} [delete]
func (h *AdminHandler) TerminateDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	if err := h.adminUsecase.TerminateDoctor(r.Context(), principal.UserID, doctorID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to terminate doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor terminated successfully", nil)
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	var doctorID *uuid.UUID
	if raw := r.URL.Query().Get("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid doctor ID")
			return
		}
		doctorID = &id
	}

	appointments, err := h.adminUsecase.ListAppointments(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AdminHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.adminUsecase.GetPatient(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}
