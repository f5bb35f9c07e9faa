package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dawingroup/dawinos-sub007/internal/batch"
	batcherrors "github.com/dawingroup/dawinos-sub007/internal/batch/errors"
	"github.com/dawingroup/dawinos-sub007/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePaymentResults ingests disbursement results reported by the payment
// channels and feeds them into the batch lifecycle. A batch that has already
// been finalized commits the message without acting on it.
func ConsumePaymentResults(
	ctx context.Context,
	reader *kafkago.Reader,
	batchService batch.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payment_result")
	log.Info("payment result consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payment result consumer stopped")
				return
			}
			log.Error("fetch payment result message failed", zap.Error(err))
			continue
		}

		var event events.PaymentResultEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payment result event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := batchService.CompletePayment(ctx, event); err != nil {
			if errors.Is(err, batcherrors.ErrBatchNotFound) {
				log.Warn("payment result for unknown batch, skipping",
					zap.String("payroll_batch_id", event.PayrollBatchID),
					zap.String("payment_batch_id", event.PaymentBatchID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("apply payment result failed",
				zap.String("payroll_batch_id", event.PayrollBatchID),
				zap.String("payment_batch_id", event.PaymentBatchID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payment result message failed", zap.Error(err))
			continue
		}

		log.Info("payment result applied",
			zap.String("payroll_batch_id", event.PayrollBatchID),
			zap.String("payment_batch_id", event.PaymentBatchID),
			zap.Int("processed", event.ProcessedCount),
			zap.Int("failed", len(event.FailedEmployeeIDs)),
		)
	}
}
