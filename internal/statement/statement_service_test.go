package statement

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"dentops/internal/messaging/kafka"
	"dentops/internal/paycalc"
	statementerrors "dentops/internal/statement/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	upsertFn                func(ctx context.Context, stmt *PayrollStatement) error
	findByPeriodFn          func(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error)
	findAllByEmployeeFn     func(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error)
	findAllByClinicPeriodFn func(ctx context.Context, clinicID string, year, month int) ([]PayrollStatement, error)
	deleteFn                func(ctx context.Context, clinicID, employeeID string, year, month int) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Upsert(ctx context.Context, stmt *PayrollStatement) error {
	return f.upsertFn(ctx, stmt)
}
func (f *fakeRepo) FindByPeriod(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error) {
	return f.findByPeriodFn(ctx, clinicID, employeeID, year, month)
}
func (f *fakeRepo) FindAllByEmployee(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error) {
	return f.findAllByEmployeeFn(ctx, clinicID, employeeID)
}
func (f *fakeRepo) FindAllByClinicPeriod(ctx context.Context, clinicID string, year, month int) ([]PayrollStatement, error) {
	return f.findAllByClinicPeriodFn(ctx, clinicID, year, month)
}
func (f *fakeRepo) Delete(ctx context.Context, clinicID, employeeID string, year, month int) error {
	return f.deleteFn(ctx, clinicID, employeeID, year, month)
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
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type fakeDirectory struct {
	snapshot EmployeeSnapshot
	err      error
}

func (f *fakeDirectory) Snapshot(ctx context.Context, clinicID, employeeID string) (EmployeeSnapshot, error) {
	return f.snapshot, f.err
}

func saveRequest(employeeID string) SaveRequest {
	return SaveRequest{
		PreviewRequest: PreviewRequest{
			EmployeeID: employeeID,
			Year:       2025,
			Month:      6,
			SalaryType: "gross",
			Payments: paycalc.PaymentBreakdown{
				BaseSalary:    3_000_000,
				MealAllowance: 200_000,
			},
			FamilyCount: 1,
		},
	}
}

func TestService_Save_ResolvesAndSnapshots(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	clinicID := uuid.New().String()
	employeeID := uuid.New().String()
	hired := time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC)

	var saved PayrollStatement
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, stmt *PayrollStatement) error {
			saved = *stmt
			return nil
		},
	}
	outbox := &fakeOutbox{}
	directory := &fakeDirectory{snapshot: EmployeeSnapshot{
		FullName:       "Kim Jiwoo",
		ResidentNumber: "900101-1234567",
		HireDate:       hired,
	}}

	svc := NewService(db, repo, outbox, directory)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Save(context.Background(), clinicID, uuid.New().String(), saveRequest(employeeID))
	assert.NoError(t, err)

	assert.Equal(t, "Kim Jiwoo", saved.EmployeeName)
	assert.Equal(t, "900101-1234567", saved.ResidentNumber)
	assert.Equal(t, hired, saved.HireDate)
	assert.Equal(t, int64(3_200_000), saved.TotalPayment)
	assert.Equal(t, int64(200_000), saved.NonTaxableTotal)
	assert.Equal(t, saved.TotalPayment-saved.TotalDeduction, saved.NetPay)
	assert.Equal(t, saved.NetPay, resp.NetPay)
	// 2025-06-25 is a Wednesday.
	assert.Equal(t, time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC), saved.PaymentDate)

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "statement_saved", outbox.created[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Save_NotComputable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, stmt *PayrollStatement) error {
			t.Fatal("nothing may be persisted for a non-computable form")
			return nil
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{})

	req := saveRequest(uuid.New().String())
	req.SalaryType = "net"
	req.TargetAmount = 0

	_, err := svc.Save(context.Background(), uuid.New().String(), uuid.New().String(), req)
	assert.ErrorIs(t, err, statementerrors.ErrNotComputable)
}

func TestService_Preview_NotComputable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeOutbox{}, &fakeDirectory{})

	req := saveRequest(uuid.New().String()).PreviewRequest
	req.SalaryType = "net"
	req.TargetAmount = 0

	_, err := svc.Preview(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, statementerrors.ErrNotComputable)
}

func TestService_Save_SkipRecomputeStoresVerbatim(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved PayrollStatement
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, stmt *PayrollStatement) error {
			saved = *stmt
			return nil
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{
		snapshot: EmployeeSnapshot{FullName: "Lee Haeun"},
	})

	req := saveRequest(uuid.New().String())
	req.SkipRecompute = true
	// Deliberately not what the engine would produce for this base.
	req.Deductions = &paycalc.DeductionBreakdown{
		NationalPension: 100_000,
		IncomeTax:       50_000,
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Save(context.Background(), uuid.New().String(), uuid.New().String(), req)
	assert.NoError(t, err)

	assert.Equal(t, int64(100_000), saved.NationalPension)
	assert.Equal(t, int64(50_000), saved.IncomeTax)
	assert.Equal(t, int64(0), saved.HealthInsurance)
	assert.Equal(t, int64(150_000), saved.TotalDeduction)
	assert.Equal(t, int64(3_200_000-150_000), saved.NetPay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Save_EmployeeNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{err: gorm.ErrRecordNotFound})

	_, err := svc.Save(context.Background(), uuid.New().String(), uuid.New().String(), saveRequest(uuid.New().String()))
	assert.ErrorIs(t, err, statementerrors.ErrEmployeeNotInClinic)
}

func TestService_Get_ReturnsStoredVerbatim(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	// Numbers a current engine run would not produce; Get must not care.
	stored := PayrollStatement{
		ID:             uuid.New(),
		ClinicID:       uuid.New(),
		EmployeeID:     uuid.New(),
		StatementYear:  2024,
		StatementMonth: 11,
		EmployeeName:   "Park Minseo",
		SalaryType:     "gross",
		BaseSalary:     3_000_000,
		IncomeTax:      999,
		TotalPayment:   3_000_000,
		TotalDeduction: 999,
		NetPay:         2_999_001,
	}
	repo := &fakeRepo{
		findByPeriodFn: func(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error) {
			return &stored, nil
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{})

	resp, err := svc.Get(context.Background(), stored.ClinicID.String(), stored.EmployeeID.String(), 2024, 11)
	assert.NoError(t, err)
	assert.Equal(t, int64(999), resp.Deductions.IncomeTax)
	assert.Equal(t, int64(2_999_001), resp.NetPay)
}

func TestService_Get_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByPeriodFn: func(ctx context.Context, clinicID, employeeID string, year, month int) (*PayrollStatement, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{})

	_, err := svc.Get(context.Background(), uuid.New().String(), uuid.New().String(), 2025, 1)
	assert.ErrorIs(t, err, statementerrors.ErrStatementNotFound)
}

func TestService_RecomputeForEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New().String()
	stored := []PayrollStatement{
		{ID: uuid.New(), StatementYear: 2025, StatementMonth: 4, BaseSalary: 2_500_000},
		{ID: uuid.New(), StatementYear: 2025, StatementMonth: 5, BaseSalary: 2_500_000},
	}

	var rewritten []PayrollStatement
	repo := &fakeRepo{
		findAllByEmployeeFn: func(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error) {
			return stored, nil
		},
		upsertFn: func(ctx context.Context, stmt *PayrollStatement) error {
			rewritten = append(rewritten, *stmt)
			return nil
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{})

	tmpl := paycalc.FormState{
		SalaryType: paycalc.SalaryTypeGross,
		Payments: paycalc.PaymentBreakdown{
			BaseSalary:    3_000_000,
			MealAllowance: 200_000,
		},
		FamilyCount: 1,
	}

	updated, err := svc.RecomputeForEmployee(context.Background(), uuid.New().String(), employeeID, tmpl)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Len(t, rewritten, 2)

	for i, stmt := range rewritten {
		assert.Equal(t, stored[i].StatementYear, stmt.StatementYear)
		assert.Equal(t, stored[i].StatementMonth, stmt.StatementMonth)
		assert.Equal(t, int64(3_000_000), stmt.BaseSalary)
		assert.Equal(t, stmt.TotalPayment-stmt.TotalDeduction, stmt.NetPay)
	}
}

func TestService_RecomputeForEmployee_SkipsNonComputable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findAllByEmployeeFn: func(ctx context.Context, clinicID, employeeID string) ([]PayrollStatement, error) {
			return []PayrollStatement{{ID: uuid.New(), StatementYear: 2025, StatementMonth: 3}}, nil
		},
		upsertFn: func(ctx context.Context, stmt *PayrollStatement) error {
			t.Fatal("non-computable period must be left untouched")
			return nil
		},
	}
	svc := NewService(db, repo, &fakeOutbox{}, &fakeDirectory{})

	// Net target of zero never resolves.
	tmpl := paycalc.FormState{SalaryType: paycalc.SalaryTypeNet, FamilyCount: 1}

	updated, err := svc.RecomputeForEmployee(context.Background(), uuid.New().String(), uuid.New().String(), tmpl)
	assert.NoError(t, err)
	assert.Equal(t, 0, updated)
}
