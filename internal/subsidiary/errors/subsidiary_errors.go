package subsidiaryerrors

import (
	"net/http"

	"github.com/dawingroup/dawinos-sub007/internal/shared/apperror"
)

var (
	ErrSubsidiaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Subsidiary not found",
		http.StatusNotFound,
	)
	ErrInvalidThreshold = apperror.New(
		apperror.CodeInvalidInput,
		"CEO approval threshold must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidFiscalStart = apperror.New(
		apperror.CodeInvalidInput,
		"Fiscal year start month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidRoundingMode = apperror.New(
		apperror.CodeInvalidInput,
		"Rounding mode must be one of round, floor, ceil",
		http.StatusBadRequest,
	)
)
