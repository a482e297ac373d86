package statement

import "time"

const defaultPaymentDay = 25

// PaymentDate returns the payout date for a statement period. The configured
// day is clamped to the month's last day, and weekend dates roll back to the
// preceding Friday.
func PaymentDate(year, month, day int) time.Time {
	if day <= 0 {
		day = defaultPaymentDay
	}
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	switch d.Weekday() {
	case time.Saturday:
		d = d.AddDate(0, 0, -1)
	case time.Sunday:
		d = d.AddDate(0, 0, -2)
	}
	return d
}
