package counter

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetNextValue(ctx context.Context, clinicID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, clinicID string, counterType string) (int64, error) {
	var nextValue int64

	// Atomic upsert-and-increment; concurrent callers per clinic/type each
	// get a distinct value.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clinic_counters (clinic_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (clinic_id, counter_type) DO UPDATE
		SET last_value = clinic_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, clinicID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
