package salarysetting

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	return gormDB, mock, func() { db.Close() }
}

func defaultSetting() *SalarySetting {
	return &SalarySetting{
		ID:          uuid.New(),
		ClinicID:    uuid.New(),
		EmployeeID:  uuid.New(),
		SalaryType:  "gross",
		FamilyCount: 1,
		PaymentDay:  25,
	}
}

func TestRepository_Create_IsPlainInsert(t *testing.T) {
	gormDB, mock, cleanup := newGormMock(t)
	defer cleanup()

	setting := defaultSetting()

	// No conflict clause: a second row for the same employee must fail on
	// the unique index instead of silently rewriting the first.
	mock.ExpectQuery(`INSERT INTO "salary_settings" \(.*\) VALUES \((\$[0-9]+,?)+\) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(setting.ID.String()))

	err := NewRepository(gormDB).Create(context.Background(), setting)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert_ConflictsOnEmployeeKey(t *testing.T) {
	gormDB, mock, cleanup := newGormMock(t)
	defer cleanup()

	setting := defaultSetting()

	mock.ExpectQuery(`INSERT INTO "salary_settings" .* ON CONFLICT \("clinic_id","employee_id"\) DO UPDATE SET .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(setting.ID.String()))

	err := NewRepository(gormDB).Upsert(context.Background(), setting)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_WithTx_RunsOnTransaction(t *testing.T) {
	gormDB, mock, cleanup := newGormMock(t)
	defer cleanup()

	sqlDB, err := gormDB.DB()
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB).WithTx(tx).(*repository)
	assert.Equal(t, gorm.ConnPool(tx), repo.conn(context.Background()).Statement.ConnPool)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
}
