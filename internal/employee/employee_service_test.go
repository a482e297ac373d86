package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"dentops/internal/employee"
	employeeerrors "dentops/internal/employee/errors"
	"dentops/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, empl *employee.Employee) error
	findAllFn      func(ctx context.Context, clinicID string) ([]employee.Employee, error)
	findByIDFn     func(ctx context.Context, clinicID, id string) (*employee.Employee, error)
	findOptionsFn  func(ctx context.Context, clinicID string) ([]employee.Employee, error)
	updateFn       func(ctx context.Context, empl *employee.Employee) error
	deleteFn       func(ctx context.Context, clinicID, id string) error
	optionsQueries int
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, empl *employee.Employee) error {
	return f.createFn(ctx, empl)
}
func (f *fakeRepo) FindAllByClinic(ctx context.Context, clinicID string) ([]employee.Employee, error) {
	return f.findAllFn(ctx, clinicID)
}
func (f *fakeRepo) FindByIDAndClinic(ctx context.Context, clinicID, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, clinicID, id)
}
func (f *fakeRepo) FindOptionsByClinic(ctx context.Context, clinicID string) ([]employee.Employee, error) {
	f.optionsQueries++
	return f.findOptionsFn(ctx, clinicID)
}
func (f *fakeRepo) Update(ctx context.Context, empl *employee.Employee) error {
	return f.updateFn(ctx, empl)
}
func (f *fakeRepo) Delete(ctx context.Context, clinicID, id string) error {
	return f.deleteFn(ctx, clinicID, id)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, clinicID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
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

func TestService_Create_GeneratesStaffNumberAndQueuesEvent(t *testing.T) {
	db, sqlMock, _ := sqlmock.New()
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	clinicID := uuid.New().String()

	var saved employee.Employee
	repo := &fakeRepo{
		createFn: func(ctx context.Context, empl *employee.Employee) error {
			saved = *empl
			return nil
		},
	}
	outbox := &fakeOutbox{}
	svc := employee.NewService(db, repo, &fakeCounter{}, outbox, rdb)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	redisMock.ExpectDel(employee.GetEmployeeOptionsKey(clinicID)).SetVal(1)

	resp, err := svc.Create(context.Background(), clinicID, employee.CreateEmployeeRequest{
		FullName:       "Kim Jiwoo",
		Email:          "jiwoo@clinic.kr",
		ResidentNumber: "900101-1234567",
		HireDate:       "2023-03-02",
		FamilyCount:    2,
	})
	assert.NoError(t, err)
	assert.Equal(t, "STF-000001", resp.StaffNumber)
	assert.Equal(t, "active", saved.EmploymentStatus)
	assert.Equal(t, 2, saved.FamilyCount)

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "employee_created", outbox.created[0].EventType)
	assert.Equal(t, saved.ID.String(), outbox.created[0].AggregateID)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Create_InvalidHireDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := employee.NewService(db, &fakeRepo{}, &fakeCounter{}, nil, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
		FullName: "Kim Jiwoo",
		Email:    "jiwoo@clinic.kr",
		HireDate: "02-03-2023",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
}

func TestService_Create_InvalidClinicIDReturnsError(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := employee.NewService(db, &fakeRepo{}, &fakeCounter{}, nil, nil)

	// A malformed tenant claim must surface as an error, not a panic.
	_, err := svc.Create(context.Background(), "not-a-uuid", employee.CreateEmployeeRequest{
		FullName: "Kim Jiwoo",
		Email:    "jiwoo@clinic.kr",
		HireDate: "2023-03-02",
	})
	assert.Error(t, err)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	db, sqlMock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, empl *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}
		},
	}
	svc := employee.NewService(db, repo, &fakeCounter{}, nil, nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New().String(), employee.CreateEmployeeRequest{
		FullName: "Kim Jiwoo",
		Email:    "jiwoo@clinic.kr",
		HireDate: "2023-03-02",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_GetOptions_CacheHitSkipsRepository(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	clinicID := uuid.New().String()
	cacheKey := employee.GetEmployeeOptionsKey(clinicID)

	cached := []employee.EmployeeOption{{ID: uuid.New().String(), FullName: "Lee Haeun"}}
	jsonResp, _ := json.Marshal(cached)
	redisMock.ExpectGet(cacheKey).SetVal(string(jsonResp))

	repo := &fakeRepo{
		findOptionsFn: func(ctx context.Context, clinicID string) ([]employee.Employee, error) {
			return nil, nil
		},
	}
	svc := employee.NewService(db, repo, &fakeCounter{}, nil, rdb)

	resp, err := svc.GetOptions(context.Background(), clinicID)
	assert.NoError(t, err)
	assert.Equal(t, cached, resp)
	assert.Zero(t, repo.optionsQueries)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetOptions_CacheMissFillsCache(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	clinicID := uuid.New().String()
	cacheKey := employee.GetEmployeeOptionsKey(clinicID)

	emplID := uuid.New()
	repo := &fakeRepo{
		findOptionsFn: func(ctx context.Context, clinicID string) ([]employee.Employee, error) {
			return []employee.Employee{{ID: emplID, FullName: "Park Minseo", StaffNumber: "STF-000002"}}, nil
		},
	}
	svc := employee.NewService(db, repo, &fakeCounter{}, nil, rdb)

	expected := []employee.EmployeeOption{{ID: emplID.String(), FullName: "Park Minseo", StaffNumber: "STF-000002"}}
	jsonData, _ := json.Marshal(expected)
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSet(cacheKey, jsonData, 1*time.Hour).SetVal("OK")

	resp, err := svc.GetOptions(context.Background(), clinicID)
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.Equal(t, 1, repo.optionsQueries)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
