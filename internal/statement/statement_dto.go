package statement

import (
	"time"

	"dentops/internal/paycalc"
)

// PreviewRequest carries the live form state. Nothing here is persisted;
// the response is what the save would store.
type PreviewRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	Year         int    `json:"year" binding:"required,min=2000,max=2100"`
	Month        int    `json:"month" binding:"required,min=1,max=12"`
	SalaryType   string `json:"salary_type" binding:"required,oneof=net gross"`
	TargetAmount int64  `json:"target_amount" binding:"min=0"`

	Payments  paycalc.PaymentBreakdown   `json:"payments"`
	Overrides paycalc.InsuranceOverrides `json:"overrides"`

	OtherDeductions           int64 `json:"other_deductions"`
	HealthInsuranceAdjustment int64 `json:"health_insurance_adjustment"`
	LongTermCareAdjustment    int64 `json:"long_term_care_adjustment"`
	AgricultureTax            int64 `json:"agriculture_tax"`

	FamilyCount int `json:"family_count" binding:"min=0"`
	ChildCount  int `json:"child_count" binding:"min=0"`
}

func (r PreviewRequest) formState() paycalc.FormState {
	fam := r.FamilyCount
	if fam < 1 {
		fam = 1
	}
	return paycalc.FormState{
		EmployeeID:                r.EmployeeID,
		Year:                      r.Year,
		Month:                     r.Month,
		SalaryType:                paycalc.SalaryType(r.SalaryType),
		TargetAmount:              r.TargetAmount,
		Payments:                  r.Payments,
		Overrides:                 r.Overrides,
		OtherDeductions:           r.OtherDeductions,
		HealthInsuranceAdjustment: r.HealthInsuranceAdjustment,
		LongTermCareAdjustment:    r.LongTermCareAdjustment,
		AgricultureTax:            r.AgricultureTax,
		FamilyCount:               fam,
		ChildCount:                r.ChildCount,
	}
}

// SaveRequest persists a statement for the period. Deductions, when set,
// are stored verbatim instead of recomputed; this is how an edited sheet is
// saved without the engine second-guessing the bookkeeper.
type SaveRequest struct {
	PreviewRequest

	PaymentDay  int     `json:"payment_day" binding:"min=0,max=31"`
	WorkDays    int     `json:"work_days" binding:"min=0,max=31"`
	WeeklyHours float64 `json:"weekly_hours" binding:"min=0,max=168"`

	// SkipRecompute stores the submitted figures verbatim instead of running
	// the resolver. Used when re-saving a loaded statement untouched, so a
	// rate-table change between save and re-save cannot silently move numbers.
	SkipRecompute bool                        `json:"skip_recompute"`
	Deductions    *paycalc.DeductionBreakdown `json:"deductions,omitempty"`
}

type StatementResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	ResidentNumber string    `json:"resident_number"`
	HireDate       time.Time `json:"hire_date"`

	Year        int       `json:"year"`
	Month       int       `json:"month"`
	PaymentDate time.Time `json:"payment_date"`

	SalaryType   string `json:"salary_type"`
	TargetAmount int64  `json:"target_amount"`

	Payments        paycalc.PaymentBreakdown   `json:"payments"`
	TotalPayment    int64                      `json:"total_payment"`
	Deductions      paycalc.DeductionBreakdown `json:"deductions"`
	TotalDeduction  int64                      `json:"total_deduction"`
	NetPay          int64                      `json:"net_pay"`
	NonTaxableTotal int64                      `json:"non_taxable_total"`
	TaxableIncome   int64                      `json:"taxable_income"`

	FamilyCount int `json:"family_count"`
	ChildCount  int `json:"child_count"`

	WorkDays    int     `json:"work_days"`
	WeeklyHours float64 `json:"weekly_hours"`
}

func toStatementResponse(s PayrollStatement) StatementResponse {
	r := s.result()
	return StatementResponse{
		ID:              s.ID.String(),
		EmployeeID:      s.EmployeeID.String(),
		EmployeeName:    s.EmployeeName,
		ResidentNumber:  s.ResidentNumber,
		HireDate:        s.HireDate,
		Year:            s.StatementYear,
		Month:           s.StatementMonth,
		PaymentDate:     s.PaymentDate,
		SalaryType:      s.SalaryType,
		TargetAmount:    s.TargetAmount,
		Payments:        r.Payments,
		TotalPayment:    r.TotalPayment,
		Deductions:      r.Deductions,
		TotalDeduction:  r.TotalDeduction,
		NetPay:          r.NetPay,
		NonTaxableTotal: r.NonTaxableTotal,
		TaxableIncome:   r.TaxableIncome,
		FamilyCount:     s.FamilyCount,
		ChildCount:      s.ChildCount,
		WorkDays:        s.WorkDays,
		WeeklyHours:     s.WeeklyHours,
	}
}

// PreviewResponse mirrors the calculation result the form renders before a
// save. A null result means the inputs are not computable yet.
type PreviewResponse struct {
	Result      *paycalc.Result `json:"result"`
	PaymentDate time.Time       `json:"payment_date"`
}
