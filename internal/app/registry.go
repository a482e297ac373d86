package app

import (
	"context"
	"database/sql"

	"dentops/internal/contract"
	"dentops/internal/employee"
	"dentops/internal/messaging/kafka"
	"dentops/internal/salarysetting"
	"dentops/internal/shared/counter"
	"dentops/internal/statement"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// employeeDirectory adapts the employee repository to the snapshot lookup
// the statement service needs at save time.
type employeeDirectory struct {
	repo employee.Repository
}

func (d *employeeDirectory) Snapshot(ctx context.Context, clinicID, employeeID string) (statement.EmployeeSnapshot, error) {
	empl, err := d.repo.FindByIDAndClinic(ctx, clinicID, employeeID)
	if err != nil {
		return statement.EmployeeSnapshot{}, err
	}
	return statement.EmployeeSnapshot{
		FullName:       empl.FullName,
		ResidentNumber: empl.ResidentNumber,
		HireDate:       empl.HireDate,
	}, nil
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	contractRepo := contract.NewRepository(gormDB)
	settingRepo := salarysetting.NewRepository(gormDB)
	statementRepo := statement.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	directory := &employeeDirectory{repo: employeeRepo}
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	contractService := contract.NewService(contractRepo, logger)
	statementService := statement.NewService(db, statementRepo, outboxRepo, directory, logger)
	settingService := salarysetting.NewService(db, settingRepo, outboxRepo, statementService, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	contractHandler := contract.NewHandler(contractService)
	settingHandler := salarysetting.NewHandler(settingService)
	statementHandler := statement.NewHandlerWithRedis(statementService, rdb)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, logger)
		contract.RegisterRoutes(api, contractHandler)
		salarysetting.RegisterRoutes(api, settingHandler)
		statement.RegisterRoutes(api, statementHandler, rdb)
	}

	return nil
}
