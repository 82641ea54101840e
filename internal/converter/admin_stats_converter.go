package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

// AdminStatsToResponse flattens each doctor row next to its revenue figures
func AdminStatsToResponse(stats entity.AdminStats) *dto.AdminStatsResponse {
	rows := make([]dto.DoctorStatsResponse, len(stats.DoctorStats))
	for i := range stats.DoctorStats {
		row := &stats.DoctorStats[i]
		rows[i] = dto.DoctorStatsResponse{
			DoctorResponse:     *DoctorToResponse(&row.Doctor),
			PaidAppointments:   row.PaidAppointments,
			UnpaidAppointments: row.UnpaidAppointments,
			Revenue:            row.Revenue,
			Commission:         row.Commission,
		}
	}

	return &dto.AdminStatsResponse{
		TotalDoctors:      stats.TotalDoctors,
		TotalAppointments: stats.TotalAppointments,
		TotalRevenue:      stats.TotalRevenue,
		TotalCommission:   stats.TotalCommission,
		DoctorStats:       rows,
	}
}
