package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClinicID uuid.UUID `gorm:"type:uuid;index"`

	FullName string `gorm:"type:varchar(120);not null"`
	Email    string `gorm:"uniqueIndex:uq_employee_email"`
	Phone    string `gorm:"type:varchar(20)"`
	Position string `gorm:"type:varchar(60)"`

	// StaffNumber is generated per clinic when not supplied.
	StaffNumber string `gorm:"type:varchar(20);uniqueIndex:uq_staff_number"`

	// Payroll snapshot sources.
	ResidentNumber string    `gorm:"type:varchar(14)"`
	HireDate       time.Time `gorm:"type:date"`
	FamilyCount    int       `gorm:"not null;default:1"`
	ChildCount     int       `gorm:"not null;default:0"`

	EmploymentStatus string `gorm:"type:varchar(20);default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
