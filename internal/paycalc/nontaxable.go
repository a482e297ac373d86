package paycalc

// Statutory monthly caps for non-taxable allowances (소득세법 시행령).
// Meal and personal-vehicle allowances are tax-free up to 200,000 KRW each;
// everything above the cap, and every other payment component, is taxable.
const (
	MealAllowanceCap    int64 = 200_000
	VehicleAllowanceCap int64 = 200_000
)

// NonTaxable returns the portion of a payment breakdown excluded from
// taxable income.
func NonTaxable(p PaymentBreakdown) int64 {
	return minInt64(p.MealAllowance, MealAllowanceCap) +
		minInt64(p.VehicleAllowance, VehicleAllowanceCap)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
