package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	batcherrors "github.com/dawingroup/dawinos-sub007/internal/batch/errors"
	"github.com/dawingroup/dawinos-sub007/internal/employee"
	"github.com/dawingroup/dawinos-sub007/internal/events"
	"github.com/dawingroup/dawinos-sub007/internal/loan"
	"github.com/dawingroup/dawinos-sub007/internal/messaging/kafka"
	"github.com/dawingroup/dawinos-sub007/internal/payment"
	"github.com/dawingroup/dawinos-sub007/internal/payroll"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"
	"github.com/dawingroup/dawinos-sub007/internal/shared/apperror"
	"github.com/dawingroup/dawinos-sub007/internal/shared/contextutil"
	"github.com/dawingroup/dawinos-sub007/internal/shared/counter"
	"github.com/dawingroup/dawinos-sub007/internal/subsidiary"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DefaultWorkers bounds the per-batch calculation pool.
const DefaultWorkers = 8

const counterTypeBatch = "payroll_batch"

//go:generate mockgen -source=batch_service.go -destination=mock/batch_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateBatchRequest) (BatchResponse, error)
	Calculate(ctx context.Context, companyID, actorID, id string) (BatchResponse, error)
	SubmitForReview(ctx context.Context, companyID, actorID, id string) (BatchResponse, error)
	Review(ctx context.Context, companyID, actorID, id string, req ApprovalRequest) (BatchResponse, error)
	ProcessPayments(ctx context.Context, companyID, actorID, id string) (BatchResponse, error)
	CompletePayment(ctx context.Context, result events.PaymentResultEvent) error
	Cancel(ctx context.Context, companyID, actorID, id string, req CancelRequest) (BatchResponse, error)
	Reverse(ctx context.Context, companyID, actorID, id string, req ReverseRequest) (BatchResponse, error)
	GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]BatchResponse, error)
	GetByID(ctx context.Context, companyID, id string) (BatchResponse, error)
}

type Deps struct {
	DB           *gorm.DB
	Repo         Repository
	Payrolls     payroll.Service
	PayrollRepo  payroll.Repository
	Employees    employee.Repository
	Subsidiaries subsidiary.Repository
	Payments     payment.Repository
	Loans        loan.Repository
	RBAC         rbac.Service
	Outbox       kafka.OutboxRepository
	Counters     counter.Repository
	Workers      int
}

type service struct {
	Deps
	logger *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Workers <= 0 {
		deps.Workers = DefaultWorkers
	}
	return &service{Deps: deps, logger: zap.L().Named("batch.service")}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateBatchRequest,
) (BatchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BatchResponse{}, batcherrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return BatchResponse{}, batcherrors.ErrInvalidActorID
	}
	if req.Month < 1 || req.Month > 12 {
		return BatchResponse{}, batcherrors.ErrInvalidPeriod
	}

	if _, err := s.Repo.FindByPeriod(ctx, companyID, req.Year, req.Month); err == nil {
		return BatchResponse{}, batcherrors.ErrBatchAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BatchResponse{}, err
	}

	statuses := req.Statuses
	if len(statuses) == 0 {
		statuses = []string{employee.StatusActive, employee.StatusOnLeave}
	}

	var roster []employee.Employee
	if len(req.EmployeeIDs) > 0 {
		roster, err = s.findByIDsChunked(ctx, companyID, req.EmployeeIDs)
	} else {
		roster, err = s.Employees.FindRoster(ctx, companyID, employee.RosterFilter{
			Department: req.Department,
			Statuses:   statuses,
		})
	}
	if err != nil {
		return BatchResponse{}, err
	}
	if len(roster) == 0 {
		return BatchResponse{}, batcherrors.ErrNoEmployees
	}

	seq, err := s.Counters.GetNextValue(ctx, companyID, fmt.Sprintf("%s:%04d-%02d", counterTypeBatch, req.Year, req.Month))
	if err != nil {
		return BatchResponse{}, err
	}

	b := &PayrollBatch{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		BatchNumber:       fmt.Sprintf("PRB-%04d-%02d-%04d", req.Year, req.Month, seq),
		Year:              req.Year,
		Month:             req.Month,
		RosterDepartment:  req.Department,
		RosterStatuses:    statuses,
		RosterEmployeeIDs: append(StringList{}, req.EmployeeIDs...),
		Status:            StatusDraft,
		History:           StatusHistory{},
		Approvals:         ApprovalRecords{},
		EmployeeCount:     len(roster),
		PaymentStatus:     PaymentStatusPending,
		Version:           1,
		CreatedBy:         actorUUID,
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	s.logger.Info("payroll batch created",
		zap.String("batch_number", b.BatchNumber),
		zap.Int("year", b.Year),
		zap.Int("month", b.Month),
		zap.Int("employee_count", b.EmployeeCount),
	)

	return mapToResponse(*b), nil
}

// Calculate runs the whole roster through the record builder with a bounded
// worker pool. Per-employee failures are captured on the batch instead of
// aborting the run.
func (s *service) Calculate(
	ctx context.Context,
	companyID, actorID, id string,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}

	// A calculated batch reopens as a draft before rerunning; a reversed batch
	// restarts the same way.
	switch b.Status {
	case StatusCalculated:
		if err := b.transition(StatusDraft, actorID, "recalculation"); err != nil {
			return BatchResponse{}, err
		}
	case StatusReversed:
		if err := b.transition(StatusDraft, actorID, "restart after reversal"); err != nil {
			return BatchResponse{}, err
		}
	}

	if err := b.transition(StatusCalculating, actorID, ""); err != nil {
		return BatchResponse{}, err
	}
	// Claiming calculating through the version check serializes concurrent runs.
	if err := s.Repo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	// From here on a failed run falls back to draft instead of leaving the
	// batch wedged in calculating.
	fail := func(runErr error) (BatchResponse, error) {
		if err := b.transition(StatusDraft, actorID, "calculation failed"); err == nil {
			_ = s.Repo.Update(ctx, b)
		}
		return BatchResponse{}, runErr
	}

	roster, err := s.resolveRoster(ctx, companyID, b)
	if err != nil {
		return fail(err)
	}

	type aggregates struct {
		gross, paye, nssfEmp, nssfCo, lst, deductions, net int64
	}

	var (
		mu         sync.Mutex
		calcErrors CalculationErrors
		payrollIDs []string
		agg        aggregates
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)

	for _, emp := range roster {
		emp := emp
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			resp, calcErr := s.Payrolls.Calculate(gctx, companyID, actorID, payroll.CalculateRequest{
				EmployeeID:  emp.ID.String(),
				Year:        b.Year,
				Month:       b.Month,
				Recalculate: true,
			})

			mu.Lock()
			defer mu.Unlock()

			if calcErr != nil {
				calcErrors = append(calcErrors, CalculationError{
					EmployeeID:     emp.ID.String(),
					EmployeeNumber: emp.EmployeeNumber,
					Code:           errorCode(calcErr),
					Message:        calcErr.Error(),
				})
				return nil
			}

			payrollIDs = append(payrollIDs, resp.ID)
			agg.gross += resp.GrossPay
			agg.paye += resp.PAYE.TotalTax
			agg.nssfEmp += resp.NSSF.EmployeeContribution
			agg.nssfCo += resp.NSSF.EmployerContribution
			agg.lst += resp.LST.MonthlyAmount
			agg.deductions += resp.TotalDeductions
			agg.net += resp.NetPay
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fail(err)
	}

	sort.Slice(calcErrors, func(i, j int) bool {
		return calcErrors[i].EmployeeNumber < calcErrors[j].EmployeeNumber
	})

	sub, err := s.Subsidiaries.FindByID(ctx, companyID)
	if err != nil {
		return fail(err)
	}

	b.resetAggregates()
	b.EmployeeCount = len(roster)
	b.CalculatedCount = len(payrollIDs)
	b.ErrorCount = len(calcErrors)
	b.CalculationErrors = calcErrors
	b.TotalGrossPay = agg.gross
	b.TotalPAYE = agg.paye
	b.TotalNSSFEmployee = agg.nssfEmp
	b.TotalNSSFEmployer = agg.nssfCo
	b.TotalLST = agg.lst
	b.TotalDeductions = agg.deductions
	b.TotalNetPay = agg.net
	b.CEOApprovalRequired = agg.net >= sub.CEOApprovalThreshold

	if err := b.transition(StatusCalculated, actorID, ""); err != nil {
		return BatchResponse{}, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BatchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayrolls := s.PayrollRepo.WithTx(tx)
	qOutbox := s.Outbox.WithTx(tx)

	if len(payrollIDs) > 0 {
		if err := qPayrolls.LinkToBatch(ctx, companyID, payrollIDs, b.ID.String()); err != nil {
			return BatchResponse{}, err
		}
	}
	if err := qRepo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	err = s.enqueueEvent(ctx, qOutbox, events.BatchCalculatedTopic, "batch.calculated", b.ID.String(), events.BatchCalculatedEvent{
		EventType:     "batch.calculated",
		BatchID:       b.ID.String(),
		BatchNumber:   b.BatchNumber,
		CompanyID:     companyID,
		Year:          b.Year,
		Month:         b.Month,
		EmployeeCount: b.EmployeeCount,
		ErrorCount:    b.ErrorCount,
		TotalNetPay:   b.TotalNetPay,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return BatchResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return BatchResponse{}, err
	}

	s.logger.Info("payroll batch calculated",
		zap.String("batch_number", b.BatchNumber),
		zap.Int("calculated", b.CalculatedCount),
		zap.Int("errors", b.ErrorCount),
		zap.Int64("total_net_pay", b.TotalNetPay),
	)

	return mapToResponse(*b), nil
}

func (s *service) SubmitForReview(
	ctx context.Context,
	companyID, actorID, id string,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}
	if b.Status != StatusCalculated {
		return BatchResponse{}, batcherrors.ErrInvalidState
	}
	if b.ErrorCount > 0 {
		return BatchResponse{}, batcherrors.ErrHasCalculationErrors
	}

	if err := b.transition(StatusHRReview, actorID, ""); err != nil {
		return BatchResponse{}, err
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	return mapToResponse(*b), nil
}

// Review applies one approval action at whichever stage the batch sits in.
// Approval at HR advances straight into finance review; finance routes to the
// CEO only when the batch total crossed the subsidiary threshold.
func (s *service) Review(
	ctx context.Context,
	companyID, actorID, id string,
	req ApprovalRequest,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}

	stage, ok := reviewStageFor(b.Status)
	if !ok {
		return BatchResponse{}, batcherrors.ErrInvalidState
	}

	allowed, err := s.RBAC.Enforce(rbac.EnforceRequest{
		EmployeeID: actorID,
		CompanyID:  companyID,
		Resource:   "payroll_batch",
		Action:     "approve_" + stage,
	})
	if err != nil {
		return BatchResponse{}, err
	}
	if !allowed {
		return BatchResponse{}, batcherrors.ErrApprovalNotAllowed
	}

	b.Approvals = append(b.Approvals, ApprovalRecord{
		Level:   stage,
		Action:  req.Action,
		ActorID: actorID,
		Comment: req.Comment,
		At:      time.Now().UTC(),
	})

	recordsFrom, recordsTo := "", ""
	approvedNow := false
	rejected := false

	switch req.Action {
	case ApprovalActionApprove:
		switch stage {
		case ApprovalLevelHR:
			if err := b.transition(StatusHRApproved, actorID, req.Comment); err != nil {
				return BatchResponse{}, err
			}
			if err := b.transition(StatusFinanceReview, actorID, ""); err != nil {
				return BatchResponse{}, err
			}
			recordsFrom, recordsTo = payroll.StatusCalculated, payroll.StatusReviewed
		case ApprovalLevelFinance:
			if err := b.transition(StatusFinanceApproved, actorID, req.Comment); err != nil {
				return BatchResponse{}, err
			}
			next := StatusApproved
			if b.CEOApprovalRequired {
				next = StatusCEOReview
			}
			if err := b.transition(next, actorID, ""); err != nil {
				return BatchResponse{}, err
			}
			if next == StatusApproved {
				recordsFrom, recordsTo = payroll.StatusReviewed, payroll.StatusApproved
				approvedNow = true
			}
		case ApprovalLevelCEO:
			if err := b.transition(StatusApproved, actorID, req.Comment); err != nil {
				return BatchResponse{}, err
			}
			recordsFrom, recordsTo = payroll.StatusReviewed, payroll.StatusApproved
			approvedNow = true
		}

	case ApprovalActionReject:
		// Rejection kills the batch outright. The records detach the same way
		// cancellation detaches them.
		if err := b.transition(StatusCancelled, actorID, req.Comment); err != nil {
			return BatchResponse{}, err
		}
		rejected = true

	case ApprovalActionReturn:
		// A return steps back to the previously approved stage, not to the
		// earlier review queue.
		previous := map[string]string{
			ApprovalLevelHR:      StatusCalculated,
			ApprovalLevelFinance: StatusHRApproved,
			ApprovalLevelCEO:     StatusFinanceApproved,
		}[stage]
		if err := b.transition(previous, actorID, req.Comment); err != nil {
			return BatchResponse{}, err
		}
		if previous == StatusCalculated {
			recordsFrom, recordsTo = payroll.StatusReviewed, payroll.StatusCalculated
		}

	default:
		return BatchResponse{}, batcherrors.ErrInvalidApprovalAction
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BatchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayrolls := s.PayrollRepo.WithTx(tx)
	qOutbox := s.Outbox.WithTx(tx)

	if err := qRepo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}
	if recordsFrom != "" {
		if err := qPayrolls.SetStatusByBatch(ctx, companyID, b.ID.String(), recordsFrom, recordsTo); err != nil {
			return BatchResponse{}, err
		}
	}
	if rejected {
		for _, status := range []string{payroll.StatusReviewed, payroll.StatusApproved} {
			if err := qPayrolls.SetStatusByBatch(ctx, companyID, b.ID.String(), status, payroll.StatusCalculated); err != nil {
				return BatchResponse{}, err
			}
		}
		if err := qPayrolls.UnlinkFromBatch(ctx, companyID, b.ID.String()); err != nil {
			return BatchResponse{}, err
		}
	}
	if approvedNow {
		err := s.enqueueEvent(ctx, qOutbox, events.BatchApprovedTopic, "batch.approved", b.ID.String(), events.BatchApprovedEvent{
			EventType:   "batch.approved",
			BatchID:     b.ID.String(),
			BatchNumber: b.BatchNumber,
			CompanyID:   companyID,
			ApprovedBy:  actorID,
			TotalNetPay: b.TotalNetPay,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			return BatchResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return BatchResponse{}, err
	}

	return mapToResponse(*b), nil
}

// ProcessPayments partitions the batch's records into disbursement groups and
// hands each group to the payment channel through the outbox.
func (s *service) ProcessPayments(
	ctx context.Context,
	companyID, actorID, id string,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}
	if b.Status != StatusApproved {
		return BatchResponse{}, batcherrors.ErrInvalidState
	}

	payrolls, err := s.PayrollRepo.FindByBatch(ctx, companyID, b.ID.String())
	if err != nil {
		return BatchResponse{}, err
	}

	groups := payment.Partition(payrolls)
	if len(groups) == 0 {
		return BatchResponse{}, batcherrors.ErrInvalidState
	}

	if err := b.transition(StatusProcessingPayment, actorID, ""); err != nil {
		return BatchResponse{}, err
	}

	b.PaymentStatus = PaymentStatusPending
	b.PaidAmount = 0
	var outstanding int64
	for _, group := range groups {
		outstanding += group.TotalAmount
	}
	b.PendingAmount = outstanding

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BatchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayments := s.Payments.WithTx(tx)
	qOutbox := s.Outbox.WithTx(tx)

	if err := qRepo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	for _, group := range groups {
		pb := &payment.PaymentBatch{
			ID:             uuid.New(),
			CompanyID:      b.CompanyID,
			PayrollBatchID: b.ID,
			Method:         group.Method,
			BankName:       group.BankName,
			Lines:          group.Lines,
			EmployeeCount:  len(group.Lines),
			TotalAmount:    group.TotalAmount,
			Status:         payment.StatusPending,
		}
		if err := qPayments.Create(ctx, pb); err != nil {
			return BatchResponse{}, err
		}

		event := events.PaymentRequestedEvent{
			EventType:      "payment.requested",
			PaymentBatchID: pb.ID.String(),
			PayrollBatchID: b.ID.String(),
			CompanyID:      companyID,
			Method:         pb.Method,
			EmployeeCount:  pb.EmployeeCount,
			TotalAmount:    pb.TotalAmount,
			OccurredAt:     time.Now().UTC(),
		}
		if pb.BankName != nil {
			event.BankName = *pb.BankName
		}
		if err := s.enqueueEvent(ctx, qOutbox, events.PaymentRequestedTopic, "payment.requested", pb.ID.String(), event); err != nil {
			return BatchResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return BatchResponse{}, err
	}

	s.logger.Info("payment processing started",
		zap.String("batch_number", b.BatchNumber),
		zap.Int("payment_batches", len(groups)),
	)

	return mapToResponse(*b), nil
}

// CompletePayment ingests one disbursement result and rederives the batch's
// payment figures from all of its sub-batches. The payroll batch flips to paid
// only once the payment status reaches complete; a run where nothing was
// disbursed drops back to approved for retry, and a partially failed run holds
// in processing_payment until the failures are re-reported.
func (s *service) CompletePayment(ctx context.Context, result events.PaymentResultEvent) error {
	err := s.Payments.RecordResult(ctx, result.CompanyID, result.PaymentBatchID, payment.Result{
		ProcessedCount:    result.ProcessedCount,
		FailedEmployees:   result.FailedEmployeeIDs,
		ExternalReference: optional(result.ExternalReference),
		FailureReason:     optional(result.FailureReason),
	})
	if err != nil {
		return err
	}

	paymentBatches, err := s.Payments.FindByPayrollBatch(ctx, result.CompanyID, result.PayrollBatchID)
	if err != nil {
		return err
	}

	b, err := s.loadBatch(ctx, result.CompanyID, result.PayrollBatchID)
	if err != nil {
		return err
	}
	if b.Status != StatusProcessingPayment {
		// Already finalized by an earlier result; results are idempotent.
		return nil
	}

	progress := derivePaymentProgress(paymentBatches)
	b.PaymentStatus = progress.status
	b.PaidAmount = progress.paid
	b.PendingAmount = progress.pending

	if !progress.settled {
		// Other channels are still outstanding; persist the running figures.
		return s.Repo.Update(ctx, b)
	}

	if progress.paid == 0 {
		if err := b.transition(StatusApproved, "", "payment run failed"); err != nil {
			return err
		}
		return s.Repo.Update(ctx, b)
	}

	if progress.status != PaymentStatusComplete {
		s.logger.Warn("payment run partially failed",
			zap.String("batch_number", b.BatchNumber),
			zap.Int64("paid_amount", progress.paid),
			zap.Int64("pending_amount", progress.pending),
		)
		return s.Repo.Update(ctx, b)
	}

	if err := b.transition(StatusPaid, "", ""); err != nil {
		return err
	}

	payrolls, err := s.PayrollRepo.FindByBatch(ctx, result.CompanyID, result.PayrollBatchID)
	if err != nil {
		return err
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayrolls := s.PayrollRepo.WithTx(tx)
	qLoans := s.Loans.WithTx(tx)
	qOutbox := s.Outbox.WithTx(tx)

	if err := qRepo.Update(ctx, b); err != nil {
		return err
	}

	// Complete means no line failed, so every linked record flips together.
	now := time.Now().UTC()
	for i := range payrolls {
		p := &payrolls[i]
		if p.Status != payroll.StatusApproved {
			continue
		}

		p.Status = payroll.StatusPaid
		if err := qPayrolls.Update(ctx, p); err != nil {
			return err
		}

		for _, d := range p.Deductions {
			if d.LoanID == nil {
				continue
			}
			entry := loan.RecoveryEntry{
				PayrollID:   p.ID.String(),
				Installment: d.Installment,
				Amount:      d.Amount,
				RecoveredAt: now,
			}
			if err := qLoans.RecordRecovery(ctx, result.CompanyID, *d.LoanID, entry); err != nil {
				return err
			}
		}
	}

	err = s.enqueueEvent(ctx, qOutbox, events.BatchPaidTopic, "batch.paid", b.ID.String(), events.BatchPaidEvent{
		EventType:   "batch.paid",
		BatchID:     b.ID.String(),
		BatchNumber: b.BatchNumber,
		CompanyID:   result.CompanyID,
		TotalNetPay: b.TotalNetPay,
		OccurredAt:  now,
	})
	if err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("payroll batch paid",
		zap.String("batch_number", b.BatchNumber),
		zap.Int64("paid_amount", b.PaidAmount),
	)

	return nil
}

func (s *service) Cancel(
	ctx context.Context,
	companyID, actorID, id string,
	req CancelRequest,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}

	if !CanTransition(b.Status, StatusCancelled) {
		return BatchResponse{}, batcherrors.ErrInvalidState
	}
	if err := b.transition(StatusCancelled, actorID, req.Reason); err != nil {
		return BatchResponse{}, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BatchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayrolls := s.PayrollRepo.WithTx(tx)

	if err := qRepo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}

	// Records themselves survive cancellation: they roll back to calculated
	// and detach so a future batch can pick them up.
	for _, status := range []string{payroll.StatusReviewed, payroll.StatusApproved} {
		if err := qPayrolls.SetStatusByBatch(ctx, companyID, b.ID.String(), status, payroll.StatusCalculated); err != nil {
			return BatchResponse{}, err
		}
	}
	if err := qPayrolls.UnlinkFromBatch(ctx, companyID, b.ID.String()); err != nil {
		return BatchResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return BatchResponse{}, err
	}

	return mapToResponse(*b), nil
}

func (s *service) Reverse(
	ctx context.Context,
	companyID, actorID, id string,
	req ReverseRequest,
) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}

	if err := b.transition(StatusReversed, actorID, req.Reason); err != nil {
		return BatchResponse{}, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BatchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qRepo := s.Repo.WithTx(tx)
	qPayrolls := s.PayrollRepo.WithTx(tx)

	if err := qRepo.Update(ctx, b); err != nil {
		return BatchResponse{}, err
	}
	if err := qPayrolls.SetStatusByBatch(ctx, companyID, b.ID.String(), payroll.StatusPaid, payroll.StatusReversed); err != nil {
		return BatchResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return BatchResponse{}, err
	}

	s.logger.Warn("payroll batch reversed",
		zap.String("batch_number", b.BatchNumber),
		zap.String("reason", req.Reason),
	)

	return mapToResponse(*b), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter QueryFilter,
) ([]BatchResponse, error) {
	batches, err := s.Repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(batches), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (BatchResponse, error) {
	b, err := s.loadBatch(ctx, companyID, id)
	if err != nil {
		return BatchResponse{}, err
	}
	return mapToResponse(*b), nil
}

// resolveRoster re-resolves the population captured at creation: the explicit
// id list when one was given, the department/status filter otherwise.
func (s *service) resolveRoster(ctx context.Context, companyID string, b *PayrollBatch) ([]employee.Employee, error) {
	if len(b.RosterEmployeeIDs) > 0 {
		return s.findByIDsChunked(ctx, companyID, b.RosterEmployeeIDs)
	}
	return s.Employees.FindRoster(ctx, companyID, employee.RosterFilter{
		Department: b.RosterDepartment,
		Statuses:   b.RosterStatuses,
	})
}

// findByIDsChunked resolves an explicit id list QueryChunkSize ids at a time
// so no single query exceeds the data-source limit.
func (s *service) findByIDsChunked(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	roster := make([]employee.Employee, 0, len(ids))
	for start := 0; start < len(ids); start += employee.QueryChunkSize {
		end := min(start+employee.QueryChunkSize, len(ids))
		chunk, err := s.Employees.FindByIDs(ctx, companyID, ids[start:end])
		if err != nil {
			return nil, err
		}
		roster = append(roster, chunk...)
	}
	return roster, nil
}

// paymentProgress is the batch-level view derived from the disbursement
// sub-batches.
type paymentProgress struct {
	status  string
	paid    int64
	pending int64
	settled bool
}

func derivePaymentProgress(batches []payment.PaymentBatch) paymentProgress {
	p := paymentProgress{status: PaymentStatusPending, settled: len(batches) > 0}
	allCompleted := len(batches) > 0
	anyFailed := false

	var total int64
	for _, pb := range batches {
		total += pb.TotalAmount
		switch pb.Status {
		case payment.StatusPending, payment.StatusProcessing:
			p.settled = false
			allCompleted = false
		case payment.StatusCompleted:
			p.paid += pb.TotalAmount
		case payment.StatusPartial:
			p.paid += pb.TotalAmount - failedLineAmount(pb)
			anyFailed = true
			allCompleted = false
		case payment.StatusFailed:
			anyFailed = true
			allCompleted = false
		}
	}

	if allCompleted {
		p.status = PaymentStatusComplete
	} else if anyFailed {
		p.status = PaymentStatusPartial
	}
	p.pending = total - p.paid
	return p
}

func failedLineAmount(pb payment.PaymentBatch) int64 {
	failed := make(map[string]bool, len(pb.FailedEmployees))
	for _, id := range pb.FailedEmployees {
		failed[id] = true
	}

	var amount int64
	for _, line := range pb.Lines {
		if failed[line.EmployeeID] {
			amount += line.Amount
		}
	}
	return amount
}

func (s *service) loadBatch(ctx context.Context, companyID, id string) (*PayrollBatch, error) {
	b, err := s.Repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batcherrors.ErrBatchNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *service) enqueueEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	topic, eventType, aggregateID string,
	payload any,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_batch",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func errorCode(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return apperror.CodeInternalError
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
