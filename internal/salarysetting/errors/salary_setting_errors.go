package salarysettingerrors

import (
	"net/http"

	"dentops/internal/shared/apperror"
)

var (
	ErrSettingNotFound = apperror.New(
		apperror.CodeNotFound,
		"No salary setting exists for this employee",
		http.StatusNotFound,
	)

	ErrEmployeeNotInClinic = apperror.New(
		apperror.CodeInvalidInput,
		"Employee does not belong to this clinic",
		http.StatusBadRequest,
	)

	ErrSettingAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A salary setting already exists for this employee",
		http.StatusConflict,
	)
)
