package contract

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentContract rows are written by the contract signing flow, which
// lives outside this service. This package only reads them to pre-fill
// payroll calculations.
type EmploymentContract struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClinicID   uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index"`

	SalaryType       string `gorm:"type:varchar(10);not null"`
	BaseSalary       int64  `gorm:"type:bigint;not null;default:0"`
	MealAllowance    int64  `gorm:"type:bigint;not null;default:0"`
	VehicleAllowance int64  `gorm:"type:bigint;not null;default:0"`
	FamilyCount      int    `gorm:"not null;default:1"`
	ChildCount       int    `gorm:"not null;default:0"`

	StartDate time.Time `gorm:"type:date"`
	SignedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmploymentContract) TableName() string {
	return "employment_contracts"
}
