package handler

import (
	"net/http"
	"strconv"

	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// List handles GET /api/admin/audit-logs?page=&limit=
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		response.BadRequest(w, "Invalid page")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.BadRequest(w, "Invalid limit")
		return
	}

	result, err := h.auditLogUsecase.List(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

// queryInt returns 0 for a missing parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
