package tenant

import "gorm.io/gorm"

// Scope restricts a query to one clinic. Every tenant-owned table carries a
// clinic_id column; repositories must apply this on every read and write.
func Scope(clinicID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("clinic_id = ?", clinicID)
	}
}
