package statement

import (
	"context"
	"testing"
	"time"

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

func TestRepository_Upsert_ConflictsOnPeriodKey(t *testing.T) {
	gormDB, mock, cleanup := newGormMock(t)
	defer cleanup()

	stmt := &PayrollStatement{
		ID:             uuid.New(),
		ClinicID:       uuid.New(),
		EmployeeID:     uuid.New(),
		StatementYear:  2025,
		StatementMonth: 6,
		PaymentDate:    time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC),
		EmployeeName:   "Kim Jiwoo",
		SalaryType:     "gross",
		FamilyCount:    1,
	}

	// Saving the same period again must rewrite the row in place, keyed on
	// the full period identity.
	mock.ExpectQuery(`INSERT INTO "payroll_statements" .* ON CONFLICT \("clinic_id","employee_id","statement_year","statement_month"\) DO UPDATE SET .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(stmt.ID.String()))

	err := NewRepository(gormDB).Upsert(context.Background(), stmt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_WithTx_RunsUpsertOnTransaction(t *testing.T) {
	gormDB, mock, cleanup := newGormMock(t)
	defer cleanup()

	sqlDB, err := gormDB.DB()
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB).WithTx(tx).(*repository)

	// The session must execute on the caller's transaction so the upsert
	// and the outbox insert commit or roll back together.
	assert.Equal(t, gorm.ConnPool(tx), repo.conn(context.Background()).Statement.ConnPool)

	stmt := &PayrollStatement{
		ID:             uuid.New(),
		ClinicID:       uuid.New(),
		EmployeeID:     uuid.New(),
		StatementYear:  2025,
		StatementMonth: 7,
		PaymentDate:    time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC),
		EmployeeName:   "Kim Jiwoo",
		SalaryType:     "gross",
		FamilyCount:    1,
	}

	mock.ExpectQuery(`INSERT INTO "payroll_statements" .* ON CONFLICT .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(stmt.ID.String()))
	mock.ExpectRollback()

	assert.NoError(t, repo.Upsert(context.Background(), stmt))
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
