package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return responses
}
