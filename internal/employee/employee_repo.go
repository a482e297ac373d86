package employee

import (
	"context"
	"database/sql"

	"dentops/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByClinic(ctx context.Context, clinicID string) ([]Employee, error)
	FindByIDAndClinic(ctx context.Context, clinicID string, id string) (*Employee, error)
	FindOptionsByClinic(ctx context.Context, clinicID string) ([]Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, clinicID string, id string) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAllByClinic(ctx context.Context, clinicID string) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndClinic(ctx context.Context, clinicID string, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

// FindOptionsByClinic loads only the columns the dropdown needs.
func (r *repository) FindOptionsByClinic(ctx context.Context, clinicID string) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Select("id", "full_name", "staff_number", "position").
		Where("employment_status <> ?", "resigned").
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, clinicID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(clinicID)).
		Delete(&Employee{}, "id = ?", id).Error
}
