package entity

import "github.com/shopspring/decimal"

// CommissionRate is the platform's share of doctor revenue
var CommissionRate = decimal.New(10, -2)

// DoctorStats is the per-doctor row of the admin report
type DoctorStats struct {
	Doctor             Doctor
	PaidAppointments   int
	UnpaidAppointments int
	Revenue            decimal.Decimal
	Commission         decimal.Decimal
}

// AdminStats is derived on every read and never stored
type AdminStats struct {
	TotalDoctors      int
	TotalAppointments int
	TotalRevenue      decimal.Decimal
	TotalCommission   decimal.Decimal
	DoctorStats       []DoctorStats
}

// ComputeAdminStats expects doctors with Appointments preloaded
func ComputeAdminStats(doctors []Doctor) AdminStats {
	stats := AdminStats{
		TotalDoctors:    len(doctors),
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
		DoctorStats:     make([]DoctorStats, 0, len(doctors)),
	}

	for _, doc := range doctors {
		row := DoctorStats{Doctor: doc}
		for _, appt := range doc.Appointments {
			switch appt.PaymentStatus {
			case PaymentStatusPaid:
				row.PaidAppointments++
			case PaymentStatusUnpaid:
				row.UnpaidAppointments++
			}
		}
		row.Revenue = decimal.NewFromInt(int64(row.PaidAppointments)).Mul(decimal.NewFromInt(int64(doc.Fees)))
		row.Commission = row.Revenue.Mul(CommissionRate)

		stats.TotalAppointments += len(doc.Appointments)
		stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue)
		stats.TotalCommission = stats.TotalCommission.Add(row.Commission)
		stats.DoctorStats = append(stats.DoctorStats, row)
	}

	return stats
}
