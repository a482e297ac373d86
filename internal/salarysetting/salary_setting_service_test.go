package salarysetting

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"dentops/internal/messaging/kafka"
	"dentops/internal/paycalc"
	salarysettingerrors "dentops/internal/salarysetting/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn          func(ctx context.Context, setting *SalarySetting) error
	upsertFn          func(ctx context.Context, setting *SalarySetting) error
	findAllByClinicFn func(ctx context.Context, clinicID string) ([]SalarySetting, error)
	findByEmployeeFn  func(ctx context.Context, clinicID, employeeID string) (*SalarySetting, error)
	deleteFn          func(ctx context.Context, clinicID, employeeID string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, setting *SalarySetting) error {
	return f.createFn(ctx, setting)
}
func (f *fakeRepo) Upsert(ctx context.Context, setting *SalarySetting) error {
	return f.upsertFn(ctx, setting)
}
func (f *fakeRepo) FindAllByClinic(ctx context.Context, clinicID string) ([]SalarySetting, error) {
	return f.findAllByClinicFn(ctx, clinicID)
}
func (f *fakeRepo) FindByEmployee(ctx context.Context, clinicID, employeeID string) (*SalarySetting, error) {
	return f.findByEmployeeFn(ctx, clinicID, employeeID)
}
func (f *fakeRepo) Delete(ctx context.Context, clinicID, employeeID string) error {
	return f.deleteFn(ctx, clinicID, employeeID)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, r string) error { return nil }

type fakeRecomputer struct {
	calls []paycalc.FormState
	count int
	err   error
}

func (f *fakeRecomputer) RecomputeForEmployee(ctx context.Context, clinicID, employeeID string, tmpl paycalc.FormState) (int, error) {
	f.calls = append(f.calls, tmpl)
	return f.count, f.err
}

func TestService_Save_PlainSaveDoesNotRecompute(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	clinicID := uuid.New().String()
	employeeID := uuid.New().String()

	var saved SalarySetting
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, setting *SalarySetting) error {
			saved = *setting
			return nil
		},
	}
	outbox := &fakeOutbox{}
	recomputer := &fakeRecomputer{count: 7}

	svc := NewService(db, repo, outbox, recomputer)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Save(context.Background(), clinicID, uuid.New().String(), SaveSalarySettingRequest{
		EmployeeID:    employeeID,
		SalaryType:    "net",
		TargetAmount:  2_800_000,
		MealAllowance: 200_000,
		FamilyCount:   1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, resp.UpdatedStatementsCount)
	assert.Empty(t, recomputer.calls, "plain save must not touch past statements")
	assert.Equal(t, employeeID, saved.EmployeeID.String())
	assert.Equal(t, 25, saved.PaymentDay)
	assert.Len(t, outbox.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Save_ApplyToPastRecomputes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	clinicID := uuid.New().String()
	employeeID := uuid.New().String()

	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, setting *SalarySetting) error { return nil },
	}
	recomputer := &fakeRecomputer{count: 3}

	svc := NewService(db, repo, &fakeOutbox{}, recomputer)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Save(context.Background(), clinicID, uuid.New().String(), SaveSalarySettingRequest{
		EmployeeID:   employeeID,
		SalaryType:   "gross",
		TargetAmount: 3_500_000,
		Bonus:        100_000,
		FamilyCount:  2,
		ChildCount:   1,
		ApplyToPast:  true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.UpdatedStatementsCount)

	assert.Len(t, recomputer.calls, 1)
	tmpl := recomputer.calls[0]
	assert.Equal(t, paycalc.SalaryTypeGross, tmpl.SalaryType)
	assert.Equal(t, int64(3_500_000), tmpl.Payments.BaseSalary)
	assert.Equal(t, int64(100_000), tmpl.Payments.Bonus)
	assert.Equal(t, 2, tmpl.FamilyCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Save_RecomputeFailureRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, setting *SalarySetting) error { return nil },
	}
	recomputer := &fakeRecomputer{err: errors.New("recompute blew up")}

	svc := NewService(db, repo, &fakeOutbox{}, recomputer)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Save(context.Background(), uuid.New().String(), uuid.New().String(), SaveSalarySettingRequest{
		EmployeeID:   uuid.New().String(),
		SalaryType:   "net",
		TargetAmount: 2_000_000,
		FamilyCount:  1,
		ApplyToPast:  true,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByEmployee_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByEmployeeFn: func(ctx context.Context, clinicID, employeeID string) (*SalarySetting, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, repo, &fakeOutbox{}, &fakeRecomputer{})

	_, err := svc.GetByEmployee(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, salarysettingerrors.ErrSettingNotFound)
}

func TestService_SeedDefault_CreatesZeroPlaceholder(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	var created SalarySetting
	repo := &fakeRepo{
		createFn: func(ctx context.Context, setting *SalarySetting) error {
			created = *setting
			return nil
		},
		upsertFn: func(ctx context.Context, setting *SalarySetting) error {
			t.Fatal("seeding must insert, not upsert")
			return nil
		},
	}

	svc := NewService(db, repo, &fakeOutbox{}, &fakeRecomputer{})

	resp, err := svc.SeedDefault(context.Background(), uuid.New().String(), uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, "gross", created.SalaryType)
	assert.Equal(t, int64(0), created.TargetAmount)
	assert.Equal(t, 1, created.FamilyCount)
	assert.Equal(t, 25, created.PaymentDay)
	assert.Equal(t, "gross", resp.SalaryType)
}

func TestService_SeedDefault_ExistingSettingStaysUntouched(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	// The row already carries admin-entered amounts; a redelivered
	// employee_created event must not rewrite it.
	repo := &fakeRepo{
		createFn: func(ctx context.Context, setting *SalarySetting) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_setting_employee"}
		},
		upsertFn: func(ctx context.Context, setting *SalarySetting) error {
			t.Fatal("seeding must never overwrite an existing setting")
			return nil
		},
	}

	svc := NewService(db, repo, &fakeOutbox{}, &fakeRecomputer{})

	_, err := svc.SeedDefault(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, salarysettingerrors.ErrSettingAlreadyExists)
}

func TestSettingFormState_NetPutsTargetInTargetAmount(t *testing.T) {
	setting := SalarySetting{
		EmployeeID:   uuid.New(),
		SalaryType:   "net",
		TargetAmount: 2_700_000,
		FamilyCount:  1,
	}

	state := settingFormState(setting)
	assert.Equal(t, paycalc.SalaryTypeNet, state.SalaryType)
	assert.Equal(t, int64(2_700_000), state.TargetAmount)
	assert.Zero(t, state.Payments.BaseSalary)
}
