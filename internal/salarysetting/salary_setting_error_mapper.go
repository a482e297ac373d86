package salarysetting

import (
	"errors"
	"strings"

	salarysettingerrors "dentops/internal/salarysetting/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503: employee_id references an employee outside this clinic or
		// one that no longer exists.
		if pgErr.Code == "23503" {
			return salarysettingerrors.ErrEmployeeNotInClinic
		}
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_setting_employee" {
			return salarysettingerrors.ErrSettingAlreadyExists
		}
	}

	// Some drivers surface constraint violations as plain strings.
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_setting_employee") {
		return salarysettingerrors.ErrSettingAlreadyExists
	}

	return err
}
