package dto

import "github.com/shopspring/decimal"

type DoctorStatsResponse struct {
	DoctorResponse
	PaidAppointments   int             `json:"paid_appointments"`
	UnpaidAppointments int             `json:"unpaid_appointments"`
	Revenue            decimal.Decimal `json:"revenue"`
	Commission         decimal.Decimal `json:"commission"`
}

type AdminStatsResponse struct {
	TotalDoctors      int                   `json:"total_doctors"`
	TotalAppointments int                   `json:"total_appointments"`
	TotalRevenue      decimal.Decimal       `json:"total_revenue"`
	TotalCommission   decimal.Decimal       `json:"total_commission"`
	DoctorStats       []DoctorStatsResponse `json:"doctor_stats"`
}
