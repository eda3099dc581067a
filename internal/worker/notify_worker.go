package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"payviu/internal/amqp"
	"payviu/internal/store"
)

// NotifyWorker turns payment events into user-facing notification lines.
// Delivery is just structured log output here; a mail or push channel would
// slot in behind the same handler.
type NotifyWorker struct {
	store store.PaymentGetter
}

func NewNotifyWorker(st store.PaymentGetter) *NotifyWorker {
	return &NotifyWorker{store: st}
}

// HandlePaymentEvent processes a single payment event from AMQP.
func (w *NotifyWorker) HandlePaymentEvent(ctx context.Context, msg *amqp.PaymentEventMessage) error {
	if msg.Action == amqp.ActionDeleted {
		slog.InfoContext(ctx, "Notification: bill removed",
			"payment_id", msg.PaymentID,
			"user_id", msg.UserID)
		return nil
	}

	payment, err := w.store.GetPayment(ctx, msg.PaymentID)
	if errors.Is(err, store.ErrNotFound) {
		// The record was deleted between publish and consume; nothing to say.
		slog.WarnContext(ctx, "Payment gone before notification",
			"payment_id", msg.PaymentID,
			"action", msg.Action)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get payment %s: %w", msg.PaymentID, err)
	}

	switch msg.Action {
	case amqp.ActionPaid:
		slog.InfoContext(ctx, "Notification: bill paid off",
			"payment_id", payment.ID,
			"title", payment.Title,
			"total_amount", payment.TotalAmount.String(),
			"user_id", payment.UserID)
	case amqp.ActionSpawned:
		slog.InfoContext(ctx, "Notification: next bill scheduled",
			"payment_id", payment.ID,
			"title", payment.Title,
			"due_date", payment.DueDate.String(),
			"user_id", payment.UserID)
	case amqp.ActionCreated:
		slog.InfoContext(ctx, "Notification: bill added",
			"payment_id", payment.ID,
			"title", payment.Title,
			"due_date", payment.DueDate.String(),
			"user_id", payment.UserID)
	default:
		slog.DebugContext(ctx, "Ignoring payment event",
			"payment_id", payment.ID,
			"action", msg.Action)
	}

	return nil
}
