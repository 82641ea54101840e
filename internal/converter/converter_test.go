package converter

import (
	"testing"

	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilEntitiesConvertToNil(t *testing.T) {
	assert.Nil(t, UserToResponse(nil))
	assert.Nil(t, DoctorToResponse(nil))
	assert.Nil(t, AppointmentToResponse(nil))
	assert.Nil(t, PatientToSummary(nil))
	assert.Nil(t, ReviewToResponse(nil))
}

func TestAppointmentToResponseIncludesPreloadedRelations(t *testing.T) {
	contact := "+8801700000000"
	appt := &entity.Appointment{
		ID:            uuid.New(),
		PatientName:   "Rahim",
		Date:          "2025-06-01",
		Time:          "10:00",
		Contact:       &contact,
		Status:        entity.AppointmentStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
		Doctor:        &entity.Doctor{Name: "Dr. Karim", Status: entity.DoctorStatusActive},
	}

	resp := AppointmentToResponse(appt)
	require.NotNil(t, resp)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Unpaid", resp.PaymentStatus)
	assert.Equal(t, &contact, resp.Contact)
	require.NotNil(t, resp.Doctor)
	assert.Equal(t, "Active", resp.Doctor.Status)
	assert.Nil(t, resp.Patient)
}

func TestAdminStatsToResponse(t *testing.T) {
	stats := entity.ComputeAdminStats([]entity.Doctor{{
		Name: "Dr. A",
		Fees: 1000,
		Appointments: []entity.Appointment{
			{PaymentStatus: entity.PaymentStatusPaid},
			{PaymentStatus: entity.PaymentStatusUnpaid},
		},
	}})

	resp := AdminStatsToResponse(stats)
	require.Len(t, resp.DoctorStats, 1)
	assert.Equal(t, "Dr. A", resp.DoctorStats[0].Name)
	assert.Equal(t, 1, resp.DoctorStats[0].PaidAppointments)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.TotalCommission))
}
