package statement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dentops/internal/events"
	"dentops/internal/messaging/kafka"
	"dentops/internal/paycalc"
	"dentops/internal/shared/contextutil"
	statementerrors "dentops/internal/statement/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeSnapshot is the point-in-time identity copied onto a statement.
type EmployeeSnapshot struct {
	FullName       string
	ResidentNumber string
	HireDate       time.Time
}

// EmployeeDirectory looks up the snapshot for one employee. Implemented by
// the employee service; a local interface keeps this package from importing
// its types.
type EmployeeDirectory interface {
	Snapshot(ctx context.Context, clinicID, employeeID string) (EmployeeSnapshot, error)
}

type Service interface {
	Preview(ctx context.Context, clinicID string, req PreviewRequest) (PreviewResponse, error)
	Save(ctx context.Context, clinicID, actorID string, req SaveRequest) (StatementResponse, error)
	Get(ctx context.Context, clinicID, employeeID string, year, month int) (StatementResponse, error)
	ListByEmployee(ctx context.Context, clinicID, employeeID string) ([]StatementResponse, error)
	ListByPeriod(ctx context.Context, clinicID string, year, month int) ([]StatementResponse, error)
	Delete(ctx context.Context, clinicID, employeeID string, year, month int) error
	RecomputeForEmployee(ctx context.Context, clinicID, employeeID string, tmpl paycalc.FormState) (int, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	outbox    kafka.OutboxRepository
	directory EmployeeDirectory
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	directory EmployeeDirectory,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("statement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statement.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		outbox:    outbox,
		directory: directory,
		logger:    l,
	}
}

func (s *service) Preview(ctx context.Context, clinicID string, req PreviewRequest) (PreviewResponse, error) {
	result := paycalc.Resolve(req.formState())
	if result == nil {
		return PreviewResponse{}, statementerrors.ErrNotComputable
	}
	return PreviewResponse{
		Result:      result,
		PaymentDate: PaymentDate(req.Year, req.Month, 0),
	}, nil
}

func (s *service) Save(ctx context.Context, clinicID, actorID string, req SaveRequest) (StatementResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("save statement requested",
		zap.String("request_id", rid),
		zap.String("clinic_id", clinicID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Bool("skip_recompute", req.SkipRecompute),
	)

	clinicUUID, err := uuid.Parse(clinicID)
	if err != nil {
		return StatementResponse{}, errors.New("invalid clinic id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return StatementResponse{}, errors.New("invalid employee id")
	}
	var actorUUID uuid.UUID
	if actorID != "" {
		actorUUID, _ = uuid.Parse(actorID)
	}

	var result paycalc.Result
	if req.SkipRecompute && req.Deductions != nil {
		result = verbatimResult(req)
	} else {
		resolved := paycalc.Resolve(req.formState())
		if resolved == nil {
			return StatementResponse{}, statementerrors.ErrNotComputable
		}
		result = *resolved
	}

	snapshot, err := s.directory.Snapshot(ctx, clinicID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatementResponse{}, statementerrors.ErrEmployeeNotInClinic
		}
		return StatementResponse{}, err
	}

	fam := req.FamilyCount
	if fam < 1 {
		fam = 1
	}
	stmt := &PayrollStatement{
		ID:             uuid.New(),
		ClinicID:       clinicUUID,
		EmployeeID:     employeeUUID,
		StatementYear:  req.Year,
		StatementMonth: req.Month,
		PaymentDate:    PaymentDate(req.Year, req.Month, req.PaymentDay),
		EmployeeName:   snapshot.FullName,
		ResidentNumber: snapshot.ResidentNumber,
		HireDate:       snapshot.HireDate,
		SalaryType:     req.SalaryType,
		TargetAmount:   req.TargetAmount,
		FamilyCount:    fam,
		ChildCount:     req.ChildCount,
		WorkDays:       req.WorkDays,
		WeeklyHours:    req.WeeklyHours,
		CreatedBy:      actorUUID,
	}
	stmt.applyResult(result)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StatementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Upsert(ctx, stmt); err != nil {
		s.logger.Error("upsert statement failed", zap.String("request_id", rid), zap.Error(err))
		return StatementResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.StatementSavedEvent{
			EventType:   "statement_saved",
			RequestID:   rid,
			StatementID: stmt.ID.String(),
			ClinicID:    clinicID,
			EmployeeID:  req.EmployeeID,
			Year:        req.Year,
			Month:       req.Month,
			NetPay:      stmt.NetPay,
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return StatementResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll_statement",
			AggregateID:   stmt.ID.String(),
			EventType:     event.EventType,
			Topic:         events.StatementSavedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("statement outbox persist failed", zap.String("request_id", rid), zap.Error(err))
			return StatementResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return StatementResponse{}, err
	}

	s.logger.Info("statement saved",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int64("net_pay", stmt.NetPay),
	)

	return toStatementResponse(*stmt), nil
}

// Get returns the stored row as saved. It never re-resolves, so a statement
// reads back identically even after rate tables change.
func (s *service) Get(ctx context.Context, clinicID, employeeID string, year, month int) (StatementResponse, error) {
	stmt, err := s.repo.FindByPeriod(ctx, clinicID, employeeID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatementResponse{}, statementerrors.ErrStatementNotFound
		}
		return StatementResponse{}, err
	}
	return toStatementResponse(*stmt), nil
}

func (s *service) ListByEmployee(ctx context.Context, clinicID, employeeID string) ([]StatementResponse, error) {
	stmts, err := s.repo.FindAllByEmployee(ctx, clinicID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(stmts), nil
}

func (s *service) ListByPeriod(ctx context.Context, clinicID string, year, month int) ([]StatementResponse, error) {
	stmts, err := s.repo.FindAllByClinicPeriod(ctx, clinicID, year, month)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(stmts), nil
}

func (s *service) Delete(ctx context.Context, clinicID, employeeID string, year, month int) error {
	return s.repo.Delete(ctx, clinicID, employeeID, year, month)
}

// RecomputeForEmployee re-resolves every stored statement for the employee
// with the supplied template and rewrites the rows in place. Periods that
// stop being computable under the new template are left untouched. Returns
// the number of rows rewritten.
func (s *service) RecomputeForEmployee(ctx context.Context, clinicID, employeeID string, tmpl paycalc.FormState) (int, error) {
	stmts, err := s.repo.FindAllByEmployee(ctx, clinicID, employeeID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range stmts {
		stmt := &stmts[i]

		state := tmpl
		state.EmployeeID = employeeID
		state.Year = stmt.StatementYear
		state.Month = stmt.StatementMonth

		result := paycalc.Resolve(state)
		if result == nil {
			s.logger.Warn("recompute skipped non-computable period",
				zap.String("employee_id", employeeID),
				zap.Int("year", stmt.StatementYear),
				zap.Int("month", stmt.StatementMonth),
			)
			continue
		}

		stmt.SalaryType = string(state.SalaryType)
		stmt.TargetAmount = targetOf(state)
		stmt.FamilyCount = state.FamilyCount
		stmt.ChildCount = state.ChildCount
		stmt.applyResult(*result)

		if err := s.repo.Upsert(ctx, stmt); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

func targetOf(state paycalc.FormState) int64 {
	if state.SalaryType == paycalc.SalaryTypeGross {
		return state.Payments.BaseSalary
	}
	return state.TargetAmount
}

// verbatimResult rebuilds a Result from user-supplied figures without
// touching the resolver. Totals are recomputed from the breakdowns so the
// stored invariants still hold.
func verbatimResult(req SaveRequest) paycalc.Result {
	nonTaxable := paycalc.NonTaxable(req.Payments)
	totalPayment := req.Payments.Total()
	deductions := *req.Deductions
	return paycalc.Result{
		Payments:        req.Payments,
		TotalPayment:    totalPayment,
		Deductions:      deductions,
		TotalDeduction:  deductions.Total(),
		NetPay:          totalPayment - deductions.Total(),
		NonTaxableTotal: nonTaxable,
		TaxableIncome:   totalPayment - nonTaxable,
	}
}

func mapToListResponse(stmts []PayrollStatement) []StatementResponse {
	res := make([]StatementResponse, len(stmts))
	for i, stmt := range stmts {
		res[i] = toStatementResponse(stmt)
	}
	return res
}
