package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
	"go-medical-marketplace/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

// Apply handles a direct doctor application
// @Summary Apply as a doctor
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ApplyDoctorRequest true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/doctors/apply [post]
func (h *DoctorHandler) Apply(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req dto.ApplyDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Apply(r.Context(), principal.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrApplicationExists):
			response.BadRequest(w, "Application already submitted")
		case errors.Is(err, usecase.ErrUserNotFound):
			response.Unauthorized(w, "Unauthorized")
		default:
			response.InternalServerError(w, "Failed to submit application")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Application submitted successfully", doctor)
}

// Search lists active doctors matching the query filters
// @Summary Search doctors
// @Tags Doctors
// @Produce json
// @Param specialization query []string false "Specializations"
// @Param district query []string false "Districts"
// @Param q query string false "Name or specialization"
// @Param location query string false "District substring"
// @Param maxFee query int false "Maximum fee"
// @Success 200 {object} response.Response
// @Router /api/doctors [get]
func (h *DoctorHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		response.BadRequest(w, "Invalid maxFee")
		return
	}

	result, err := h.doctorUsecase.Search(r.Context(), req)
	if err != nil {
		response.InternalServerError(w, "Failed to search doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", result)
}

// Featured is the page data for the home page
func (h *DoctorHandler) Featured(w http.ResponseWriter, r *http.Request) {
	result, err := h.doctorUsecase.Featured(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", result)
}

// @Summary Get doctor detail
// @Tags Doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/doctors/{id} [get]
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	dashboard, err := h.doctorUsecase.GetDashboard(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		default:
			response.InternalServerError(w, "Failed to get dashboard")
		}
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DoctorHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.ToggleAvailability(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		default:
			response.InternalServerError(w, "Failed to update availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", doctor)
}

func (h *DoctorHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDoctorSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateSettings(r.Context(), principal.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		default:
			response.InternalServerError(w, "Failed to update settings")
		}
		return
	}

	response.Success(w, http.StatusOK, "Settings updated successfully", doctor)
}

// parseSearchRequest accepts repeated or comma separated list parameters
func parseSearchRequest(q url.Values) (*dto.DoctorSearchRequest, error) {
	req := &dto.DoctorSearchRequest{
		Specializations: splitList(q["specialization"]),
		Districts:       splitList(q["district"]),
		SearchTerm:      q.Get("q"),
		LocationTerm:    q.Get("location"),
	}

	if raw := q.Get("maxFee"); raw != "" {
		maxFee, err := strconv.Atoi(raw)
		if err != nil || maxFee < 0 {
			return nil, errors.New("invalid maxFee")
		}
		req.MaxFee = maxFee
	}

	return req, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
