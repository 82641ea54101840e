package handler

import (
	"errors"
	"net/http"

	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
)

const uploadFormField = "file"

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadUsecase usecase.UploadUsecase
	maxBytes      int64
}

func NewUploadHandler(uploadUsecase usecase.UploadUsecase, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadUsecase: uploadUsecase,
		maxBytes:      maxBytes,
	}
}

// Upload handles POST /api/upload with a multipart "file" field
// @Summary Upload a file
// @Tags Upload
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Failure 415 {object} response.Response
// @Router /api/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	file, _, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File too large", nil)
			return
		}
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	result, err := h.uploadUsecase.Upload(r.Context(), principal.UserID, file)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoFileUploaded):
			response.BadRequest(w, "No file uploaded")
		case errors.Is(err, usecase.ErrUnsupportedFileType):
			response.Error(w, http.StatusUnsupportedMediaType, "Unsupported file type", nil)
		case errors.Is(err, usecase.ErrFileTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, "File too large", nil)
		default:
			response.InternalServerError(w, "Failed to upload file")
		}
		return
	}

	response.Success(w, http.StatusCreated, "File uploaded successfully", result)
}
