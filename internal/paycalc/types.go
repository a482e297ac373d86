package paycalc

// All monetary amounts are KRW. Won has no decimal subunits, so int64
// everywhere; never float in stored values.

type SalaryType string

const (
	SalaryTypeNet   SalaryType = "net"   // target amount is take-home pay
	SalaryTypeGross SalaryType = "gross" // target amount is pre-tax base pay
)

func (s SalaryType) Valid() bool {
	return s == SalaryTypeNet || s == SalaryTypeGross
}

type PaymentBreakdown struct {
	BaseSalary           int64 `json:"base_salary"`
	Bonus                int64 `json:"bonus"`
	MealAllowance        int64 `json:"meal_allowance"`
	VehicleAllowance     int64 `json:"vehicle_allowance"`
	AnnualLeaveAllowance int64 `json:"annual_leave_allowance"`
	OvertimePay          int64 `json:"overtime_pay"`
	AdditionalPay        int64 `json:"additional_pay"`
}

func (p PaymentBreakdown) Total() int64 {
	return p.BaseSalary + p.Bonus + p.MealAllowance + p.VehicleAllowance +
		p.AnnualLeaveAllowance + p.OvertimePay + p.AdditionalPay
}

type DeductionBreakdown struct {
	NationalPension           int64 `json:"national_pension"`
	HealthInsurance           int64 `json:"health_insurance"`
	LongTermCare              int64 `json:"long_term_care"`
	EmploymentInsurance       int64 `json:"employment_insurance"`
	IncomeTax                 int64 `json:"income_tax"`
	LocalIncomeTax            int64 `json:"local_income_tax"`
	OtherDeductions           int64 `json:"other_deductions"`
	HealthInsuranceAdjustment int64 `json:"health_insurance_adjustment"`
	LongTermCareAdjustment    int64 `json:"long_term_care_adjustment"`
	AgricultureTax            int64 `json:"agriculture_tax"`
}

func (d DeductionBreakdown) Total() int64 {
	return d.NationalPension + d.HealthInsurance + d.LongTermCare +
		d.EmploymentInsurance + d.IncomeTax + d.LocalIncomeTax +
		d.OtherDeductions + d.HealthInsuranceAdjustment +
		d.LongTermCareAdjustment + d.AgricultureTax
}

// Result is a fully resolved monthly calculation. TotalPayment and
// TotalDeduction always equal the sum of their breakdowns, and
// NetPay = TotalPayment - TotalDeduction.
type Result struct {
	Payments        PaymentBreakdown   `json:"payments"`
	TotalPayment    int64              `json:"total_payment"`
	Deductions      DeductionBreakdown `json:"deductions"`
	TotalDeduction  int64              `json:"total_deduction"`
	NetPay          int64              `json:"net_pay"`
	NonTaxableTotal int64              `json:"non_taxable_total"`
	TaxableIncome   int64              `json:"taxable_income"`
}

// InsuranceOverrides carries user-entered premiums. A nil field means
// "estimate it"; a set field always wins until the user explicitly asks
// for a recalculation, so an estimate never silently clobbers manual input.
type InsuranceOverrides struct {
	NationalPension     *int64 `json:"national_pension,omitempty"`
	HealthInsurance     *int64 `json:"health_insurance,omitempty"`
	LongTermCare        *int64 `json:"long_term_care,omitempty"`
	EmploymentInsurance *int64 `json:"employment_insurance,omitempty"`
}

// FormState is the editable superset of calculation inputs that the payroll
// form round-trips. The resolver treats it as a plain value; it owns no
// state of its own.
type FormState struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`

	SalaryType   SalaryType `json:"salary_type"`
	TargetAmount int64      `json:"target_amount"` // net mode take-home target

	// In gross mode Payments.BaseSalary is taken as entered. In net mode it
	// is the search variable and the entered value is ignored.
	Payments PaymentBreakdown `json:"payments"`

	Overrides InsuranceOverrides `json:"overrides"`

	OtherDeductions           int64 `json:"other_deductions"`
	HealthInsuranceAdjustment int64 `json:"health_insurance_adjustment"`
	LongTermCareAdjustment    int64 `json:"long_term_care_adjustment"`
	AgricultureTax            int64 `json:"agriculture_tax"`

	FamilyCount int `json:"family_count"`
	ChildCount  int `json:"child_count"`
}
