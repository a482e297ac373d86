package paycalc

import "math"

// Employee-share rates for the four statutory insurances, 2025.
const (
	pensionRate      = 0.045   // 국민연금
	healthRate       = 0.03545 // 건강보험
	longTermCareRate = 0.1295  // 장기요양, applied to the health premium
	employmentRate   = 0.009   // 고용보험

	// National pension contribution base is clamped to the statutory
	// floor/ceiling before the rate is applied.
	pensionBaseFloor   int64 = 390_000
	pensionBaseCeiling int64 = 6_170_000
)

type InsurancePremiums struct {
	NationalPension     int64 `json:"national_pension"`
	HealthInsurance     int64 `json:"health_insurance"`
	LongTermCare        int64 `json:"long_term_care"`
	EmploymentInsurance int64 `json:"employment_insurance"`
}

// EstimateInsurance computes the employee share of the four statutory
// premiums for a monthly insurance base. Results are estimates: callers may
// override any field, and overrides stay untouched until an explicit
// recalculation.
//
// Long-term care is derived from the already-rounded health premium, not
// from the base. Payslips are reconciled against official notices that
// compute it that way; recomputing from the base drifts by a few won.
func EstimateInsurance(base int64) InsurancePremiums {
	if base < 0 {
		base = 0
	}

	pensionBase := base
	if pensionBase < pensionBaseFloor {
		pensionBase = pensionBaseFloor
	}
	if pensionBase > pensionBaseCeiling {
		pensionBase = pensionBaseCeiling
	}

	health := roundHalfUp(float64(base) * healthRate)

	return InsurancePremiums{
		NationalPension:     roundHalfUp(float64(pensionBase) * pensionRate),
		HealthInsurance:     health,
		LongTermCare:        roundHalfUp(float64(health) * longTermCareRate),
		EmploymentInsurance: roundHalfUp(float64(base) * employmentRate),
	}
}

// roundHalfUp rounds to the nearest won, halves away from zero.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
