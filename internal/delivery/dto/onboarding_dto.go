package dto

type OnboardingRequest struct {
	Role            string    `json:"role" validate:"required,oneof=PATIENT DOCTOR"`
	Phone           string    `json:"phone" validate:"required,phone"`
	Specialization  string    `json:"specialization" validate:"required_if=Role DOCTOR,max=100"`
	District        string    `json:"district" validate:"required_if=Role DOCTOR,max=100"`
	License         string    `json:"license" validate:"required_if=Role DOCTOR,max=100"`
	Fees            FeeAmount `json:"fees" validate:"gte=0"`
	Experience      string    `json:"experience" validate:"required_if=Role DOCTOR,max=100"`
	Description     string    `json:"description" validate:"omitempty,max=2000"`
	VerificationURL string    `json:"verificationUrl" validate:"required_if=Role DOCTOR"`
}

type OnboardingResponse struct {
	User   *UserResponse   `json:"user"`
	Doctor *DoctorResponse `json:"doctor,omitempty"`
}
