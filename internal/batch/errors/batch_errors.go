package batcherrors

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
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrBatchNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll batch not found",
		http.StatusNotFound,
	)
	ErrBatchAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a payroll batch already exists for this period",
		http.StatusConflict,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodePrecondition,
		"no payable employees matched the batch roster",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"the batch cannot move to the requested status from its current one",
		http.StatusConflict,
	)
	ErrHasCalculationErrors = apperror.New(
		apperror.CodePrecondition,
		"all calculation errors must be resolved before review",
		http.StatusConflict,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"the batch is not in a state that allows this operation",
		http.StatusConflict,
	)
	ErrInvalidApprovalAction = apperror.New(
		apperror.CodeInvalidInput,
		"approval action must be approve, reject or return",
		http.StatusBadRequest,
	)
	ErrApprovalNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"actor is not permitted to act on this approval stage",
		http.StatusForbidden,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConcurrentModification,
		"batch was modified concurrently, retry with fresh state",
		http.StatusConflict,
	)
)
