package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "dentops/internal/employee/errors"
	"dentops/internal/events"
	"dentops/internal/messaging/kafka"
	"dentops/internal/shared/contextutil"
	"dentops/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(clinicID string) string {
	return EmployeeOptionsKeyPrefix + clinicID
}

type Service interface {
	Create(ctx context.Context, clinicID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, clinicID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, clinicID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, clinicID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, clinicID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, clinicID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outbox,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	clinicID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("clinic_id", clinicID),
		zap.String("email", req.Email),
	)

	clinicUUID, err := uuid.Parse(clinicID)
	if err != nil {
		return EmployeeResponse{}, errors.New("invalid clinic id")
	}

	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		s.logger.Warn("create employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.StaffNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, clinicID, "staff_number")
		if err != nil {
			s.logger.Error("create employee generate staff number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.StaffNumber = fmt.Sprintf("STF-%06d", nextVal)
	}

	status := req.EmploymentStatus
	if status == "" {
		status = "active"
	}
	fam := req.FamilyCount
	if fam < 1 {
		fam = 1
	}

	empl := &Employee{
		ID:               uuid.New(),
		ClinicID:         clinicUUID,
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Position:         req.Position,
		StaffNumber:      req.StaffNumber,
		ResidentNumber:   req.ResidentNumber,
		HireDate:         hireDate,
		FamilyCount:      fam,
		ChildCount:       req.ChildCount,
		EmploymentStatus: status,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			ClinicID:   clinicID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, clinicID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("staff_number", empl.StaffNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, clinicID string) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAllByClinic(ctx, clinicID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

// GetOptions serves the statement form dropdown. Cached in redis for an
// hour; singleflight collapses the stampede when many admins open the form
// right after an invalidation.
func (s *service) GetOptions(ctx context.Context, clinicID string) ([]EmployeeOption, error) {
	cacheKey := GetEmployeeOptionsKey(clinicID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptionsByClinic(ctx, clinicID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOption{
				ID:          e.ID.String(),
				FullName:    e.FullName,
				StaffNumber: e.StaffNumber,
				Position:    e.Position,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, clinicID, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByIDAndClinic(ctx, clinicID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	clinicID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("clinic_id", clinicID),
		zap.String("employee_id", id),
	)

	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByIDAndClinic(ctx, clinicID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.Phone = req.Phone
	empl.Position = req.Position
	if req.StaffNumber != "" {
		empl.StaffNumber = req.StaffNumber
	}
	empl.ResidentNumber = req.ResidentNumber
	empl.HireDate = hireDate
	if req.FamilyCount >= 1 {
		empl.FamilyCount = req.FamilyCount
	}
	empl.ChildCount = req.ChildCount
	if req.EmploymentStatus != "" {
		empl.EmploymentStatus = req.EmploymentStatus
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, clinicID)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, clinicID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("clinic_id", clinicID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, clinicID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx, clinicID)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, clinicID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(clinicID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseHireDate(v string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, employeeerrors.ErrInvalidHireDate
	}
	return d, nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               empl.ID.String(),
		ClinicID:         empl.ClinicID.String(),
		FullName:         empl.FullName,
		Email:            empl.Email,
		Phone:            empl.Phone,
		Position:         empl.Position,
		StaffNumber:      empl.StaffNumber,
		ResidentNumber:   empl.ResidentNumber,
		HireDate:         empl.HireDate.Format("2006-01-02"),
		FamilyCount:      empl.FamilyCount,
		ChildCount:       empl.ChildCount,
		EmploymentStatus: empl.EmploymentStatus,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
