package payrollerrors

import (
	"net/http"

	"github.com/dawingroup/dawinos-sub007/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)

	// Precondition failures abort a single employee's calculation and are
	// non-fatal to a batch run.
	ErrEmployeeNotFound = apperror.New(
		apperror.CodePrecondition,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmploymentStatus = apperror.New(
		apperror.CodePrecondition,
		"only active or on-leave employees can be paid",
		http.StatusBadRequest,
	)
	ErrNoActiveContract = apperror.New(
		apperror.CodePrecondition,
		"employee has no active contract for the period",
		http.StatusBadRequest,
	)
	ErrAlreadyCalculated = apperror.New(
		apperror.CodePrecondition,
		"payroll already calculated for this employee and period",
		http.StatusConflict,
	)

	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrImmutableOncePaid = apperror.New(
		apperror.CodeInvalidState,
		"a paid payroll cannot be modified except by reversal",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"manual earning and deduction amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConcurrentModification,
		"record was modified concurrently, retry with fresh state",
		http.StatusConflict,
	)
)
