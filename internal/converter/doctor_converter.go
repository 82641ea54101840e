package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		Name:            doctor.Name,
		Specialization:  doctor.Specialization,
		District:        doctor.District,
		LicenseNumber:   doctor.LicenseNumber,
		VerificationURL: doctor.VerificationURL,
		Fees:            doctor.Fees,
		Experience:      doctor.Experience,
		Description:     doctor.Description,
		Image:           doctor.Image,
		Status:          string(doctor.Status),
		IsAvailable:     doctor.IsAvailable,
		Rating:          doctor.Rating,
		Reviews:         doctor.Reviews,
		Phone:           doctor.Phone,
		MapsURL:         doctor.MapsURL,
		CreatedAt:       doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
