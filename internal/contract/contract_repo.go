package contract

import (
	"context"

	"dentops/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	FindLatestByEmployee(ctx context.Context, clinicID, employeeID string) (*EmploymentContract, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindLatestByEmployee returns the most recent signed contract; an unsigned
// draft never feeds a payroll calculation.
func (r *repository) FindLatestByEmployee(ctx context.Context, clinicID, employeeID string) (*EmploymentContract, error) {
	var c EmploymentContract
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Where("employee_id = ? AND signed_at IS NOT NULL", employeeID).
		Order("start_date DESC").
		First(&c).Error
	return &c, err
}
