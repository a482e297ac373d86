package paycalc

// Net-mode inversion is a bounded search. Deductions are step functions of
// gross pay (tax rounding, premium rounding, bracket edges), so net pay is
// not strictly monotone in base salary: it climbs by at most 1 KRW per 1 KRW
// of base but occasionally dips a few won where a rounding step lands. The
// search bisects on the rising trend and then scans a small window around
// the candidate, so it terminates in a fixed number of evaluations and the
// tie-break (smallest base salary whose net pay reaches the target) is exact.
const (
	maxBisectIterations = 48
	scanWindow          = 64
)

// Resolve computes the full payment/deduction breakdown for a form state.
// It returns nil when the state is not yet computable: no employee or period
// selected, an unknown salary type, or a net-mode target of zero or less.
// Callers treat nil as "nothing to show", not as an error.
func Resolve(state FormState) *Result {
	if state.EmployeeID == "" || state.Year == 0 || state.Month == 0 {
		return nil
	}

	switch state.SalaryType {
	case SalaryTypeGross:
		r := computeForBase(state, state.Payments.BaseSalary)
		return &r
	case SalaryTypeNet:
		if state.TargetAmount <= 0 {
			return nil
		}
		r := computeForBase(state, solveBaseSalary(state))
		return &r
	default:
		return nil
	}
}

// computeForBase is the forward (gross) computation: payments as entered
// with the given base salary, non-taxable split, insurance on the taxable
// base, withholding tax lookup, then the totals.
func computeForBase(state FormState, baseSalary int64) Result {
	p := state.Payments
	p.BaseSalary = maxInt64(baseSalary, 0)

	totalPayment := p.Total()
	nonTaxable := NonTaxable(p)
	taxable := totalPayment - nonTaxable
	if taxable < 0 {
		taxable = 0
	}

	// Statutory insurance bases exclude non-taxable pay.
	est := EstimateInsurance(taxable)

	d := DeductionBreakdown{
		NationalPension:           est.NationalPension,
		HealthInsurance:           est.HealthInsurance,
		LongTermCare:              est.LongTermCare,
		EmploymentInsurance:       est.EmploymentInsurance,
		OtherDeductions:           state.OtherDeductions,
		HealthInsuranceAdjustment: state.HealthInsuranceAdjustment,
		LongTermCareAdjustment:    state.LongTermCareAdjustment,
		AgricultureTax:            state.AgricultureTax,
	}
	if v := state.Overrides.NationalPension; v != nil {
		d.NationalPension = *v
	}
	if v := state.Overrides.HealthInsurance; v != nil {
		d.HealthInsurance = *v
	}
	if v := state.Overrides.LongTermCare; v != nil {
		d.LongTermCare = *v
	}
	if v := state.Overrides.EmploymentInsurance; v != nil {
		d.EmploymentInsurance = *v
	}

	d.IncomeTax, d.LocalIncomeTax = LookupIncomeTax(taxable, state.FamilyCount, state.ChildCount)

	totalDeduction := d.Total()

	return Result{
		Payments:        p,
		TotalPayment:    totalPayment,
		Deductions:      d,
		TotalDeduction:  totalDeduction,
		NetPay:          totalPayment - totalDeduction,
		NonTaxableTotal: nonTaxable,
		TaxableIncome:   taxable,
	}
}

// solveBaseSalary finds the smallest base salary whose resulting net pay
// reaches the target. Fixed allowances and overrides are held constant; only
// the base salary varies.
func solveBaseSalary(state FormState) int64 {
	target := state.TargetAmount
	netAt := func(base int64) int64 {
		return computeForBase(state, base).NetPay
	}

	if netAt(0) >= target {
		return 0
	}

	// Deductions never exceed half of pay in the modeled range, so twice the
	// shortfall is a safe upper bound; double further just in case.
	lo, hi := int64(0), 2*target
	for i := 0; netAt(hi) < target && i < maxBisectIterations; i++ {
		hi *= 2
	}

	// Invariant on the trend: netAt(lo) < target <= netAt(hi).
	for i := 0; i < maxBisectIterations && hi-lo > 1; i++ {
		mid := lo + (hi-lo)/2
		if netAt(mid) >= target {
			hi = mid
		} else {
			lo = mid
		}
	}

	// Rounding dips can hide a smaller base (or leave hi just short); settle
	// it exactly within a window around the bisection candidate.
	best := hi
	bestDiff := absInt64(netAt(hi) - target)
	for base := maxInt64(hi-scanWindow, 0); base <= hi+scanWindow; base++ {
		net := netAt(base)
		if net >= target {
			// Smallest base that does not underpay the employee.
			return base
		}
		if diff := absInt64(net - target); diff < bestDiff {
			best = base
			bestDiff = diff
		}
	}
	return best
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
