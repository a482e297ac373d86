package statementerrors

import (
	"net/http"

	"dentops/internal/shared/apperror"
)

var (
	ErrStatementNotFound = apperror.New(
		apperror.CodeNotFound,
		"No statement exists for this employee and period",
		http.StatusNotFound,
	)

	ErrNotComputable = apperror.New(
		apperror.CodeNotComputable,
		"The entered amounts do not produce a computable statement",
		http.StatusUnprocessableEntity,
	)

	ErrEmployeeNotInClinic = apperror.New(
		apperror.CodeInvalidInput,
		"Employee does not belong to this clinic",
		http.StatusBadRequest,
	)
)
