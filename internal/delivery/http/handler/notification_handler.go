package handler

import (
	"net/http"

	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	result, err := h.notificationUsecase.List(r.Context(), principal.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", result)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	result, err := h.notificationUsecase.MarkAllRead(r.Context(), principal.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to update notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications marked as read", result)
}
