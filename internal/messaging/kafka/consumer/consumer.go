package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"dentops/internal/events"
	"dentops/internal/salarysetting"
	salarysettingerrors "dentops/internal/salarysetting/errors"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle seeds a placeholder salary setting whenever an
// employee is created, so the payroll form always has a row to load. The
// placeholder keeps amounts at zero until an admin fills them in.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	settingService salarysetting.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if !handleEmployeeCreated(ctx, settingService, msg.Value, log) {
			// Retriable failure; leave the message uncommitted for redelivery.
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// handleEmployeeCreated reports whether the message is done and may be
// committed. Delivery is at-least-once, so a redelivered event must never
// touch a setting that already exists: an admin may have configured it
// between the first delivery and this one.
func handleEmployeeCreated(
	ctx context.Context,
	settingService salarysetting.Service,
	value []byte,
	log *zap.Logger,
) bool {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Error("decode employee_created event failed", zap.Error(err))
		return true
	}

	_, err := settingService.SeedDefault(ctx, event.ClinicID, event.EmployeeID)
	switch {
	case err == nil:
		log.Info("default salary setting created from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("clinic_id", event.ClinicID),
		)
		return true
	case errors.Is(err, salarysettingerrors.ErrSettingAlreadyExists):
		log.Warn("salary setting already exists for event, skipping",
			zap.String("employee_id", event.EmployeeID),
			zap.String("clinic_id", event.ClinicID),
		)
		return true
	case isForeignKeyViolation(err):
		// Employee row vanished between event and consume.
		log.Warn("employee no longer exists for event, skipping",
			zap.String("employee_id", event.EmployeeID),
			zap.String("clinic_id", event.ClinicID),
		)
		return true
	default:
		log.Error("create default salary setting failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("clinic_id", event.ClinicID),
			zap.Error(err),
		)
		return false
	}
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, salarysettingerrors.ErrEmployeeNotInClinic) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
