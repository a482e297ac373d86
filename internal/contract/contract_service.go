package contract

import (
	"context"
	"errors"
	"net/http"

	"dentops/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoContract = apperror.New(
	apperror.CodeNotFound,
	"No signed contract exists for this employee",
	http.StatusNotFound,
)

// EmployeeSalaryInfo is the slice of a contract the payroll form pre-fills
// from.
type EmployeeSalaryInfo struct {
	EmployeeID       string `json:"employee_id"`
	SalaryType       string `json:"salary_type"`
	BaseSalary       int64  `json:"base_salary"`
	MealAllowance    int64  `json:"meal_allowance"`
	VehicleAllowance int64  `json:"vehicle_allowance"`
	FamilyCount      int    `json:"family_count"`
	ChildCount       int    `json:"child_count"`
}

type Service interface {
	SalaryInfo(ctx context.Context, clinicID, employeeID string) (EmployeeSalaryInfo, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("contract.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("contract.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) SalaryInfo(ctx context.Context, clinicID, employeeID string) (EmployeeSalaryInfo, error) {
	c, err := s.repo.FindLatestByEmployee(ctx, clinicID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeSalaryInfo{}, ErrNoContract
		}
		s.logger.Error("load contract failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return EmployeeSalaryInfo{}, err
	}

	return EmployeeSalaryInfo{
		EmployeeID:       c.EmployeeID.String(),
		SalaryType:       c.SalaryType,
		BaseSalary:       c.BaseSalary,
		MealAllowance:    c.MealAllowance,
		VehicleAllowance: c.VehicleAllowance,
		FamilyCount:      c.FamilyCount,
		ChildCount:       c.ChildCount,
	}, nil
}
