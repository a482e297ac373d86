package statement

import (
	"context"
	"database/sql"

	"dentops/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, stmt *PayrollStatement) error
	FindByPeriod(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error)
	FindAllByEmployee(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error)
	FindAllByClinicPeriod(ctx context.Context, clinicID string, year, month int) ([]PayrollStatement, error)
	Delete(ctx context.Context, clinicID, employeeID string, year, month int) error
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

// conn binds the session to the WithTx transaction so the upsert shares the
// caller's commit/rollback with the outbox insert.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// Upsert keeps one statement per (clinic, employee, year, month); saving the
// same period again rewrites the row in place.
func (r *repository) Upsert(ctx context.Context, stmt *PayrollStatement) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "clinic_id"}, {Name: "employee_id"},
				{Name: "statement_year"}, {Name: "statement_month"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"payment_date",
				"employee_name", "resident_number", "hire_date",
				"salary_type", "target_amount",
				"base_salary", "bonus", "meal_allowance", "vehicle_allowance",
				"annual_leave_allowance", "overtime_pay", "additional_pay",
				"total_payment",
				"national_pension", "health_insurance", "long_term_care",
				"employment_insurance", "income_tax", "local_income_tax",
				"other_deductions", "health_insurance_adjustment",
				"long_term_care_adjustment", "agriculture_tax",
				"total_deduction",
				"net_pay", "non_taxable_total", "taxable_income",
				"family_count", "child_count",
				"work_days", "weekly_hours",
				"updated_at",
			}),
		}).
		Create(stmt).Error
}

func (r *repository) FindByPeriod(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error) {
	var stmt PayrollStatement
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		First(&stmt, "employee_id = ? AND statement_year = ? AND statement_month = ?",
			employeeID, year, month).Error
	return &stmt, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error) {
	var stmts []PayrollStatement
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Where("employee_id = ?", employeeID).
		Order("statement_year DESC, statement_month DESC").
		Find(&stmts).Error
	return stmts, err
}

func (r *repository) FindAllByClinicPeriod(ctx context.Context, clinicID string, year, month int) ([]PayrollStatement, error) {
	var stmts []PayrollStatement
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Where("statement_year = ? AND statement_month = ?", year, month).
		Order("employee_name ASC").
		Find(&stmts).Error
	return stmts, err
}

func (r *repository) Delete(ctx context.Context, clinicID, employeeID string, year, month int) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Delete(&PayrollStatement{}, "employee_id = ? AND statement_year = ? AND statement_month = ?",
			employeeID, year, month).Error
}
