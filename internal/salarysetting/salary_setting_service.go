package salarysetting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dentops/internal/events"
	"dentops/internal/messaging/kafka"
	"dentops/internal/paycalc"
	salarysettingerrors "dentops/internal/salarysetting/errors"
	"dentops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatementRecomputer rewrites already-saved statements for one employee
// using a fresh form-state template. Implemented by the statement service;
// kept as a local interface so this package does not depend on it.
type StatementRecomputer interface {
	RecomputeForEmployee(ctx context.Context, clinicID, employeeID string, tmpl paycalc.FormState) (int, error)
}

type Service interface {
	GetAll(ctx context.Context, clinicID string) ([]SalarySettingResponse, error)
	GetByEmployee(ctx context.Context, clinicID, employeeID string) (SalarySettingResponse, error)
	Save(ctx context.Context, clinicID, actorID string, req SaveSalarySettingRequest) (SaveSalarySettingResponse, error)
	SeedDefault(ctx context.Context, clinicID, employeeID string) (SalarySettingResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	recomputer StatementRecomputer
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	recomputer StatementRecomputer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salarysetting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarysetting.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		outbox:     outbox,
		recomputer: recomputer,
		logger:     l,
	}
}

func (s *service) GetAll(ctx context.Context, clinicID string) ([]SalarySettingResponse, error) {
	settings, err := s.repo.FindAllByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(settings), nil
}

func (s *service) GetByEmployee(ctx context.Context, clinicID, employeeID string) (SalarySettingResponse, error) {
	setting, err := s.repo.FindByEmployee(ctx, clinicID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalarySettingResponse{}, salarysettingerrors.ErrSettingNotFound
		}
		return SalarySettingResponse{}, err
	}

	return mapToResponse(*setting), nil
}

func (s *service) Save(
	ctx context.Context,
	clinicID, actorID string,
	req SaveSalarySettingRequest,
) (SaveSalarySettingResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("save salary setting requested",
		zap.String("request_id", rid),
		zap.String("clinic_id", clinicID),
		zap.String("employee_id", req.EmployeeID),
		zap.Bool("apply_to_past", req.ApplyToPast),
	)

	clinicUUID, err := uuid.Parse(clinicID)
	if err != nil {
		return SaveSalarySettingResponse{}, errors.New("invalid clinic id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SaveSalarySettingResponse{}, errors.New("invalid employee id")
	}

	paymentDay := req.PaymentDay
	if paymentDay == 0 {
		paymentDay = 25
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveSalarySettingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	setting := &SalarySetting{
		ID:               uuid.New(),
		ClinicID:         clinicUUID,
		EmployeeID:       employeeUUID,
		SalaryType:       req.SalaryType,
		TargetAmount:     req.TargetAmount,
		MealAllowance:    req.MealAllowance,
		VehicleAllowance: req.VehicleAllowance,
		Bonus:            req.Bonus,
		FamilyCount:      req.FamilyCount,
		ChildCount:       req.ChildCount,
		PaymentDay:       paymentDay,
	}

	if err := qtx.Upsert(ctx, setting); err != nil {
		s.logger.Error("upsert salary setting failed", zap.String("request_id", rid), zap.Error(err))
		return SaveSalarySettingResponse{}, mapRepositoryError(err)
	}

	// Rewriting history is opt-in; a plain settings save only affects
	// statements generated after it.
	updated := 0
	if req.ApplyToPast && s.recomputer != nil {
		updated, err = s.recomputer.RecomputeForEmployee(ctx, clinicID, req.EmployeeID, settingFormState(*setting))
		if err != nil {
			s.logger.Error("apply setting to past statements failed",
				zap.String("request_id", rid),
				zap.String("employee_id", req.EmployeeID),
				zap.Error(err),
			)
			return SaveSalarySettingResponse{}, err
		}
	}

	if s.outbox != nil {
		event := events.SalarySettingAppliedEvent{
			EventType:         "salary_setting_applied",
			RequestID:         rid,
			ClinicID:          clinicID,
			EmployeeID:        req.EmployeeID,
			AppliedToPast:     req.ApplyToPast,
			UpdatedStatements: updated,
			OccurredAt:        time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return SaveSalarySettingResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "salary_setting",
			AggregateID:   req.EmployeeID,
			EventType:     event.EventType,
			Topic:         events.SalarySettingAppliedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("salary setting outbox persist failed", zap.String("request_id", rid), zap.Error(err))
			return SaveSalarySettingResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveSalarySettingResponse{}, err
	}

	s.logger.Info("salary setting saved",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("updated_statements", updated),
	)

	return SaveSalarySettingResponse{
		Setting:                mapToResponse(*setting),
		UpdatedStatementsCount: updated,
	}, nil
}

// SeedDefault creates the zero placeholder setting for a brand-new employee.
// It inserts, never upserts: if a row already exists it may carry amounts an
// admin configured since, so the seed reports ErrSettingAlreadyExists and
// leaves it untouched.
func (s *service) SeedDefault(ctx context.Context, clinicID, employeeID string) (SalarySettingResponse, error) {
	clinicUUID, err := uuid.Parse(clinicID)
	if err != nil {
		return SalarySettingResponse{}, errors.New("invalid clinic id")
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return SalarySettingResponse{}, errors.New("invalid employee id")
	}

	setting := &SalarySetting{
		ID:          uuid.New(),
		ClinicID:    clinicUUID,
		EmployeeID:  employeeUUID,
		SalaryType:  "gross",
		FamilyCount: 1,
		PaymentDay:  25,
	}

	if err := s.repo.Create(ctx, setting); err != nil {
		return SalarySettingResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("default salary setting seeded",
		zap.String("clinic_id", clinicID),
		zap.String("employee_id", employeeID),
	)

	return mapToResponse(*setting), nil
}

// settingFormState turns a stored template into the resolver input used for
// apply-to-past recomputes. Year/month are filled per statement.
func settingFormState(setting SalarySetting) paycalc.FormState {
	state := paycalc.FormState{
		EmployeeID: setting.EmployeeID.String(),
		SalaryType: paycalc.SalaryType(setting.SalaryType),
		Payments: paycalc.PaymentBreakdown{
			Bonus:            setting.Bonus,
			MealAllowance:    setting.MealAllowance,
			VehicleAllowance: setting.VehicleAllowance,
		},
		FamilyCount: setting.FamilyCount,
		ChildCount:  setting.ChildCount,
	}
	if state.SalaryType == paycalc.SalaryTypeGross {
		state.Payments.BaseSalary = setting.TargetAmount
	} else {
		state.TargetAmount = setting.TargetAmount
	}
	return state
}

func mapToResponse(setting SalarySetting) SalarySettingResponse {
	return SalarySettingResponse{
		ID:               setting.ID.String(),
		EmployeeID:       setting.EmployeeID.String(),
		EmployeeName:     setting.EmployeeName,
		SalaryType:       setting.SalaryType,
		TargetAmount:     setting.TargetAmount,
		MealAllowance:    setting.MealAllowance,
		VehicleAllowance: setting.VehicleAllowance,
		Bonus:            setting.Bonus,
		FamilyCount:      setting.FamilyCount,
		ChildCount:       setting.ChildCount,
		PaymentDay:       setting.PaymentDay,
	}
}

func mapToListResponse(settings []SalarySetting) []SalarySettingResponse {
	res := make([]SalarySettingResponse, len(settings))
	for i, setting := range settings {
		res[i] = mapToResponse(setting)
	}
	return res
}
