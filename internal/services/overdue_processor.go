package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"payviu/internal/core"
	"payviu/internal/store"
)

// OverdueStore is what the processor needs from storage: the unpaid slice of
// the table plus the ability to patch individual records.
type OverdueStore interface {
	store.UnpaidLister
	store.PaymentPatcher
}

// OverdueProcessor periodically persists the synchronizer's verdict: unpaid
// payments whose due date has passed are patched to overdue with the alert
// color. The read path re-synchronizes every snapshot anyway, so this sweep
// only keeps stored state from drifting too far from the calendar; running it
// twice is a no-op.
type OverdueProcessor struct {
	store OverdueStore
}

func NewOverdueProcessor(st OverdueStore) *OverdueProcessor {
	return &OverdueProcessor{store: st}
}

// ProcessOverdue marks all past-due unpaid payments as overdue and returns
// how many records were patched. Malformed records (missing due date) are
// skipped and reported rather than failing the whole pass.
func (p *OverdueProcessor) ProcessOverdue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	unpaid, err := p.store.ListUnpaidPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unpaid payments: %w", err)
	}

	slog.InfoContext(ctx, "Sweeping for overdue payments",
		"total_unpaid", len(unpaid),
		"sweep_date", now.Format("2006-01-02"))

	patched := 0
	for _, pm := range unpaid {
		if pm.DueDate.IsZero() {
			slog.WarnContext(ctx, "Skipping payment with missing due date",
				"payment_id", pm.ID,
				"title", pm.Title)
			continue
		}
		if pm.Status == core.StatusOverdue || !core.IsPastDue(pm.DueDate, now) {
			continue
		}

		status := core.StatusOverdue
		color := core.OverdueColor
		patch := core.PaymentPatch{Status: &status, Color: &color}
		if err := p.store.PatchPayment(ctx, pm.ID, patch); err != nil {
			slog.ErrorContext(ctx, "Failed to mark payment overdue",
				"payment_id", pm.ID,
				"error", err)
			continue
		}

		patched++
		slog.InfoContext(ctx, "Payment marked overdue",
			"payment_id", pm.ID,
			"title", pm.Title,
			"due_date", pm.DueDate.String())
	}

	slog.InfoContext(ctx, "Overdue sweep complete",
		"patched", patched,
		"total_checked", len(unpaid))

	return patched, nil
}
