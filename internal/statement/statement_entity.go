package statement

import (
	"time"

	"dentops/internal/paycalc"

	"github.com/google/uuid"
)

// PayrollStatement is the durable record for one employee-month. Employee
// name, resident number and hire date are snapshotted at save time so a
// later profile edit never rewrites payroll history. One row per
// (clinic, employee, year, month); saves upsert.
type PayrollStatement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID   uuid.UUID `gorm:"type:uuid;not null;index:idx_statement_period,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_statement_period,unique"`

	StatementYear  int `gorm:"not null;index:idx_statement_period,unique"`
	StatementMonth int `gorm:"not null;index:idx_statement_period,unique"`

	PaymentDate time.Time `gorm:"type:date;not null"`

	// Employee snapshot, not a live reference.
	EmployeeName   string    `gorm:"type:varchar(120);not null"`
	ResidentNumber string    `gorm:"type:varchar(14);not null"`
	HireDate       time.Time `gorm:"type:date"`

	SalaryType   string `gorm:"type:varchar(10);not null"`
	TargetAmount int64  `gorm:"type:bigint;not null;default:0"`

	// Payments
	BaseSalary           int64 `gorm:"type:bigint;not null;default:0"`
	Bonus                int64 `gorm:"type:bigint;not null;default:0"`
	MealAllowance        int64 `gorm:"type:bigint;not null;default:0"`
	VehicleAllowance     int64 `gorm:"type:bigint;not null;default:0"`
	AnnualLeaveAllowance int64 `gorm:"type:bigint;not null;default:0"`
	OvertimePay          int64 `gorm:"type:bigint;not null;default:0"`
	AdditionalPay        int64 `gorm:"type:bigint;not null;default:0"`
	TotalPayment         int64 `gorm:"type:bigint;not null;default:0"`

	// Deductions
	NationalPension           int64 `gorm:"type:bigint;not null;default:0"`
	HealthInsurance           int64 `gorm:"type:bigint;not null;default:0"`
	LongTermCare              int64 `gorm:"type:bigint;not null;default:0"`
	EmploymentInsurance       int64 `gorm:"type:bigint;not null;default:0"`
	IncomeTax                 int64 `gorm:"type:bigint;not null;default:0"`
	LocalIncomeTax            int64 `gorm:"type:bigint;not null;default:0"`
	OtherDeductions           int64 `gorm:"type:bigint;not null;default:0"`
	HealthInsuranceAdjustment int64 `gorm:"type:bigint;not null;default:0"`
	LongTermCareAdjustment    int64 `gorm:"type:bigint;not null;default:0"`
	AgricultureTax            int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeduction            int64 `gorm:"type:bigint;not null;default:0"`

	NetPay          int64 `gorm:"type:bigint;not null;default:0"`
	NonTaxableTotal int64 `gorm:"type:bigint;not null;default:0"`
	TaxableIncome   int64 `gorm:"type:bigint;not null;default:0"`

	FamilyCount int `gorm:"not null;default:1"`
	ChildCount  int `gorm:"not null;default:0"`

	// Work info
	WorkDays    int     `gorm:"not null;default:0"`
	WeeklyHours float64 `gorm:"not null;default:0"`

	CreatedBy uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollStatement) TableName() string {
	return "payroll_statements"
}

func (s *PayrollStatement) applyResult(r paycalc.Result) {
	s.BaseSalary = r.Payments.BaseSalary
	s.Bonus = r.Payments.Bonus
	s.MealAllowance = r.Payments.MealAllowance
	s.VehicleAllowance = r.Payments.VehicleAllowance
	s.AnnualLeaveAllowance = r.Payments.AnnualLeaveAllowance
	s.OvertimePay = r.Payments.OvertimePay
	s.AdditionalPay = r.Payments.AdditionalPay
	s.TotalPayment = r.TotalPayment

	s.NationalPension = r.Deductions.NationalPension
	s.HealthInsurance = r.Deductions.HealthInsurance
	s.LongTermCare = r.Deductions.LongTermCare
	s.EmploymentInsurance = r.Deductions.EmploymentInsurance
	s.IncomeTax = r.Deductions.IncomeTax
	s.LocalIncomeTax = r.Deductions.LocalIncomeTax
	s.OtherDeductions = r.Deductions.OtherDeductions
	s.HealthInsuranceAdjustment = r.Deductions.HealthInsuranceAdjustment
	s.LongTermCareAdjustment = r.Deductions.LongTermCareAdjustment
	s.AgricultureTax = r.Deductions.AgricultureTax
	s.TotalDeduction = r.TotalDeduction

	s.NetPay = r.NetPay
	s.NonTaxableTotal = r.NonTaxableTotal
	s.TaxableIncome = r.TaxableIncome
}

func (s PayrollStatement) result() paycalc.Result {
	return paycalc.Result{
		Payments: paycalc.PaymentBreakdown{
			BaseSalary:           s.BaseSalary,
			Bonus:                s.Bonus,
			MealAllowance:        s.MealAllowance,
			VehicleAllowance:     s.VehicleAllowance,
			AnnualLeaveAllowance: s.AnnualLeaveAllowance,
			OvertimePay:          s.OvertimePay,
			AdditionalPay:        s.AdditionalPay,
		},
		TotalPayment: s.TotalPayment,
		Deductions: paycalc.DeductionBreakdown{
			NationalPension:           s.NationalPension,
			HealthInsurance:           s.HealthInsurance,
			LongTermCare:              s.LongTermCare,
			EmploymentInsurance:       s.EmploymentInsurance,
			IncomeTax:                 s.IncomeTax,
			LocalIncomeTax:            s.LocalIncomeTax,
			OtherDeductions:           s.OtherDeductions,
			HealthInsuranceAdjustment: s.HealthInsuranceAdjustment,
			LongTermCareAdjustment:    s.LongTermCareAdjustment,
			AgricultureTax:            s.AgricultureTax,
		},
		TotalDeduction:  s.TotalDeduction,
		NetPay:          s.NetPay,
		NonTaxableTotal: s.NonTaxableTotal,
		TaxableIncome:   s.TaxableIncome,
	}
}
