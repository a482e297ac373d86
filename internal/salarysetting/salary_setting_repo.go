package salarysetting

import (
	"context"
	"database/sql"

	"dentops/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, setting *SalarySetting) error
	Upsert(ctx context.Context, setting *SalarySetting) error
	FindAllByClinic(ctx context.Context, clinicID string) ([]SalarySetting, error)
	FindByEmployee(ctx context.Context, clinicID string, employeeID string) (*SalarySetting, error)
	Delete(ctx context.Context, clinicID string, employeeID string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn binds the session to the WithTx transaction so a write shares the
// caller's commit/rollback with the outbox insert.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// Create inserts a new setting; the (clinic, employee) unique index rejects
// a second row, which seeding paths use to detect an existing one.
func (r *repository) Create(ctx context.Context, setting *SalarySetting) error {
	return r.conn(ctx).Create(setting).Error
}

// Upsert keeps one setting per (clinic, employee); a re-save overwrites.
func (r *repository) Upsert(ctx context.Context, setting *SalarySetting) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "clinic_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"salary_type", "target_amount",
				"meal_allowance", "vehicle_allowance", "bonus",
				"family_count", "child_count", "payment_day",
				"updated_at",
			}),
		}).
		Create(setting).Error
}

func (r *repository) FindAllByClinic(ctx context.Context, clinicID string) ([]SalarySetting, error) {
	var settings []SalarySetting
	query := `
SELECT
	salary_settings.*,
	employees.full_name AS employee_name
FROM salary_settings
JOIN employees ON employees.id = salary_settings.employee_id
WHERE salary_settings.clinic_id = ?
ORDER BY employees.full_name ASC
`

	err := r.db.WithContext(ctx).Raw(query, clinicID).Scan(&settings).Error
	return settings, err
}

func (r *repository) FindByEmployee(ctx context.Context, clinicID string, employeeID string) (*SalarySetting, error) {
	var setting SalarySetting
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		First(&setting, "employee_id = ?", employeeID).Error
	return &setting, err
}

func (r *repository) Delete(ctx context.Context, clinicID string, employeeID string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Delete(&SalarySetting{}, "employee_id = ?", employeeID).Error
}
