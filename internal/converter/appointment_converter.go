package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Doctor and Patient are included when preloaded.
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:            appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		PatientName:   appt.PatientName,
		Date:          appt.Date,
		Time:          appt.Time,
		Contact:       appt.Contact,
		Reason:        appt.Reason,
		Status:        string(appt.Status),
		PaymentStatus: string(appt.PaymentStatus),
		CreatedAt:     appt.CreatedAt,
		Doctor:        DoctorToResponse(appt.Doctor),
		Patient:       PatientToSummary(appt.Patient),
	}
}

func AppointmentsToResponses(appts []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appts))
	for i := range appts {
		responses[i] = *AppointmentToResponse(&appts[i])
	}
	return responses
}
