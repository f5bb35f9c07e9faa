package batch

import (
	"time"

	batcherrors "github.com/dawingroup/dawinos-sub007/internal/batch/errors"
)

// validTransitions is the full lifecycle graph. Anything not listed here is
// rejected. Cancelled is terminal; reversed can only restart as a fresh draft.
var validTransitions = map[string][]string{
	StatusDraft:           {StatusCalculating, StatusCancelled},
	StatusCalculating:     {StatusCalculated, StatusDraft},
	StatusCalculated:      {StatusHRReview, StatusDraft, StatusCancelled},
	StatusHRReview:        {StatusHRApproved, StatusCalculated, StatusCancelled},
	StatusHRApproved:      {StatusFinanceReview},
	StatusFinanceReview:   {StatusFinanceApproved, StatusHRApproved, StatusCancelled},
	StatusFinanceApproved: {StatusCEOReview, StatusApproved},
	StatusCEOReview:       {StatusApproved, StatusFinanceApproved, StatusCancelled},
	StatusApproved:        {StatusProcessingPayment},
	// A fully failed payment run drops back to approved so it can be retried.
	StatusProcessingPayment: {StatusPaid, StatusApproved},
	StatusPaid:              {StatusReversed},
	StatusCancelled:         {},
	StatusReversed:          {StatusDraft},
}

func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition moves the batch to a new status and appends the audit entry.
func (b *PayrollBatch) transition(to, actorID, reason string) error {
	if !CanTransition(b.Status, to) {
		return batcherrors.ErrInvalidStatusTransition
	}

	b.History = append(b.History, StatusChange{
		From:    b.Status,
		To:      to,
		ActorID: actorID,
		Reason:  reason,
		At:      time.Now().UTC(),
	})
	b.Status = to
	return nil
}

// reviewStageFor maps a batch status to the approval level acting on it.
func reviewStageFor(status string) (string, bool) {
	switch status {
	case StatusHRReview:
		return ApprovalLevelHR, true
	case StatusFinanceReview:
		return ApprovalLevelFinance, true
	case StatusCEOReview:
		return ApprovalLevelCEO, true
	}
	return "", false
}
