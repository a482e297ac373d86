package salarysetting

import (
	"time"

	"github.com/google/uuid"
)

// SalarySetting is the per-employee payroll template: it seeds the monthly
// statement form and is the thing "apply to past" replays over history.
// One row per (clinic, employee).
type SalarySetting struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID   uuid.UUID `gorm:"type:uuid;not null;index:idx_setting_employee,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_setting_employee,unique"`

	SalaryType   string `gorm:"type:varchar(10);not null;default:'gross'"`
	TargetAmount int64  `gorm:"type:bigint;not null;default:0"`

	MealAllowance    int64 `gorm:"type:bigint;not null;default:0"`
	VehicleAllowance int64 `gorm:"type:bigint;not null;default:0"`
	Bonus            int64 `gorm:"type:bigint;not null;default:0"`

	FamilyCount int `gorm:"not null;default:1"`
	ChildCount  int `gorm:"not null;default:0"`

	// Day of month wages are paid; rolled back to a weekday per statement.
	PaymentDay int `gorm:"not null;default:25"`

	EmployeeName string `gorm:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
