package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

func PatientToSummary(patient *entity.Patient) *dto.PatientSummary {
	if patient == nil {
		return nil
	}

	return &dto.PatientSummary{
		ID:    patient.ID,
		Name:  patient.Name,
		Email: patient.Email,
		Image: patient.Image,
	}
}

// PatientToDetail includes whatever appointments were preloaded
func PatientToDetail(patient *entity.Patient) *dto.PatientDetailResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientDetailResponse{
		PatientSummary: *PatientToSummary(patient),
		Appointments:   AppointmentsToResponses(patient.Appointments),
	}
}
