package paycalc

// Formula model of the simplified monthly withholding table (간이세액표).
// The published table is itself derived from the annual income-tax formula:
// annualize the monthly taxable income, subtract the earned-income deduction,
// per-dependent personal deductions and the employee pension contribution,
// apply the progressive brackets, subtract the earned-income tax credit,
// divide by twelve and subtract the monthly child credit. Monthly amounts in
// the table are truncated to 10 KRW, which this model reproduces.

const (
	personalDeductionPerDependent int64 = 1_500_000 // annual, per dependent
	earnedIncomeDeductionCap      int64 = 20_000_000
	monthlyTaxRoundUnit           int64 = 10

	localIncomeTaxRate = 0.10 // 지방소득세 surtax on income tax
)

type taxBracket struct {
	floor int64 // annual tax base above this amount...
	base  int64 // ...owes this much...
	rate  float64
}

// 2023+ annual brackets; the top bracket doubles as the extrapolation rule
// for incomes beyond the published table.
var taxBrackets = []taxBracket{
	{1_000_000_000, 384_060_000, 0.45},
	{500_000_000, 174_060_000, 0.42},
	{300_000_000, 94_060_000, 0.40},
	{150_000_000, 37_060_000, 0.38},
	{88_000_000, 15_360_000, 0.35},
	{50_000_000, 6_240_000, 0.24},
	{14_000_000, 840_000, 0.15},
	{0, 0, 0.06},
}

// LookupIncomeTax returns the monthly withholding income tax and the derived
// local income tax for a taxable monthly income. dependentCount includes the
// employee (minimum 1); childCount is the number of children aged 8-20,
// which only affects the monthly child tax credit.
//
// Pure function: below the lowest bracket the tax is zero, above the highest
// it extrapolates at the top marginal rate, and it never fails.
func LookupIncomeTax(taxableMonthly int64, dependentCount, childCount int) (incomeTax, localIncomeTax int64) {
	if taxableMonthly <= 0 {
		return 0, 0
	}
	if dependentCount < 1 {
		dependentCount = 1
	}
	if childCount < 0 {
		childCount = 0
	}

	annualSalary := taxableMonthly * 12

	taxBase := annualSalary -
		earnedIncomeDeduction(annualSalary) -
		int64(dependentCount)*personalDeductionPerDependent -
		annualPensionDeduction(taxableMonthly)
	if taxBase <= 0 {
		return 0, 0
	}

	annualTax := progressiveTax(taxBase)
	annualTax -= earnedIncomeTaxCredit(annualTax, annualSalary)
	if annualTax <= 0 {
		return 0, 0
	}

	monthly := annualTax/12 - childTaxCredit(childCount)
	if monthly <= 0 {
		return 0, 0
	}
	monthly -= monthly % monthlyTaxRoundUnit

	return monthly, roundHalfUp(float64(monthly) * localIncomeTaxRate)
}

// 근로소득공제, capped at 20,000,000 annually.
func earnedIncomeDeduction(annualSalary int64) int64 {
	var d int64
	switch {
	case annualSalary <= 5_000_000:
		d = roundHalfUp(float64(annualSalary) * 0.70)
	case annualSalary <= 15_000_000:
		d = 3_500_000 + roundHalfUp(float64(annualSalary-5_000_000)*0.40)
	case annualSalary <= 45_000_000:
		d = 7_500_000 + roundHalfUp(float64(annualSalary-15_000_000)*0.15)
	case annualSalary <= 100_000_000:
		d = 12_000_000 + roundHalfUp(float64(annualSalary-45_000_000)*0.05)
	default:
		d = 14_750_000 + roundHalfUp(float64(annualSalary-100_000_000)*0.02)
	}
	if d > earnedIncomeDeductionCap {
		d = earnedIncomeDeductionCap
	}
	return d
}

// The table assumes the employee pension contribution (4.5% of the clamped
// monthly base) is fully deducted.
func annualPensionDeduction(taxableMonthly int64) int64 {
	base := taxableMonthly
	if base < pensionBaseFloor {
		base = pensionBaseFloor
	}
	if base > pensionBaseCeiling {
		base = pensionBaseCeiling
	}
	return roundHalfUp(float64(base)*pensionRate) * 12
}

func progressiveTax(taxBase int64) int64 {
	for _, b := range taxBrackets {
		if taxBase > b.floor {
			return b.base + roundHalfUp(float64(taxBase-b.floor)*b.rate)
		}
	}
	return 0
}

// 근로소득세액공제: 55% of the first 1,300,000 of computed tax plus 30% of
// the remainder, capped on a sliding scale by annual salary.
func earnedIncomeTaxCredit(computedTax, annualSalary int64) int64 {
	var credit int64
	if computedTax <= 1_300_000 {
		credit = roundHalfUp(float64(computedTax) * 0.55)
	} else {
		credit = 715_000 + roundHalfUp(float64(computedTax-1_300_000)*0.30)
	}

	var cap int64
	switch {
	case annualSalary <= 33_000_000:
		cap = 740_000
	case annualSalary <= 70_000_000:
		cap = maxInt64(740_000-roundHalfUp(float64(annualSalary-33_000_000)*0.008), 660_000)
	case annualSalary <= 120_000_000:
		cap = maxInt64(660_000-roundHalfUp(float64(annualSalary-70_000_000)*0.50), 500_000)
	default:
		cap = maxInt64(500_000-roundHalfUp(float64(annualSalary-120_000_000)*0.50), 200_000)
	}

	if credit > cap {
		credit = cap
	}
	return credit
}

// Monthly child tax credit for children aged 8-20, per the published table.
func childTaxCredit(childCount int) int64 {
	switch {
	case childCount <= 0:
		return 0
	case childCount == 1:
		return 12_500
	case childCount == 2:
		return 29_160
	default:
		return 29_160 + 25_000*int64(childCount-2)
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
