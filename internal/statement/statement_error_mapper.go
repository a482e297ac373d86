package statement

import (
	"errors"

	statementerrors "dentops/internal/statement/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503: the employee referenced by the statement is not in this
		// clinic or was removed between form load and save.
		if pgErr.Code == "23503" {
			return statementerrors.ErrEmployeeNotInClinic
		}
	}

	return err
}
