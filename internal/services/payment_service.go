package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payviu/internal/amqp"
	"payviu/internal/core"
	"payviu/internal/store"
)

// PaymentService owns the payment lifecycle: create, update, delete, partial
// payment application, and the spawning of the next occurrence when a
// recurring payment is paid off. Every mutation goes through here.
type PaymentService struct {
	store  store.PaymentStore
	events *amqp.Client
	now    func() time.Time
}

func NewPaymentService(st store.PaymentStore, events *amqp.Client) *PaymentService {
	return &PaymentService{
		store:  st,
		events: events,
		now:    time.Now,
	}
}

// CreateParams carries user input for a new payment. Zero values fall back to
// defaults, so a minimal request with just a title is enough.
type CreateParams struct {
	Title       string
	Description string
	Type        core.PaymentType
	Period      core.Period
	Priority    core.Priority
	DueDate     core.Date
	Color       string
	Status      core.Status
	TotalAmount decimal.Decimal
}

// Create persists a new payment with defaults applied. AmountPaid is always
// forced to zero regardless of input, and CreatedAt is stamped once here.
// Creating a payment that is already paid and recurring immediately spawns
// its next occurrence.
func (s *PaymentService) Create(ctx context.Context, userID string, in CreateParams) (core.Payment, error) {
	now := s.now()

	p := core.Payment{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Period:      in.Period,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Color:       in.Color,
		Status:      in.Status,
		TotalAmount: in.TotalAmount,
		AmountPaid:  decimal.Zero,
		CreatedAt:   now,
		UserID:      userID,
	}
	if p.Title == "" {
		p.Title = "Untitled"
	}
	if p.Type == "" {
		p.Type = core.TypeOnetime
	}
	if p.Period == "" {
		p.Period = core.Monthly
	}
	if p.Priority == "" {
		p.Priority = core.PriorityMedium
	}
	if p.DueDate.IsZero() {
		p.DueDate = core.DateOf(now)
	}
	if p.Color == "" {
		p.Color = core.DefaultColor
	}
	if p.Status == "" {
		p.Status = core.StatusPending
	}

	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	id, err := s.store.InsertPayment(ctx, p)
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	p.ID = id

	slog.InfoContext(ctx, "Payment created",
		"payment_id", p.ID,
		"title", p.Title,
		"type", p.Type,
		"due_date", p.DueDate.String(),
		"total_amount", p.TotalAmount.String())

	// Edge case: creating a bill that is already settled still schedules the
	// next occurrence for recurring payments.
	if p.Status == core.StatusPaid && p.Type == core.TypeRecurring {
		if _, err := s.spawnOccurrence(ctx, p); err != nil {
			return core.Payment{}, err
		}
	}

	s.publishEvent(ctx, amqp.ActionCreated, p.ID, p.UserID)
	return p, nil
}

// Update merges patch over the stored payment. The recurrence spawn fires
// only on a transition into paid judged against the previously stored status,
// so patching an already-paid record never duplicates an occurrence.
func (s *PaymentService) Update(ctx context.Context, userID, id string, patch core.PaymentPatch) (core.Payment, error) {
	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return core.Payment{}, err
	}

	merged := existing
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return core.Payment{}, err
	}

	if err := s.store.PatchPayment(ctx, id, patch); err != nil {
		return core.Payment{}, fmt.Errorf("patch payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment updated",
		"payment_id", id,
		"title", merged.Title,
		"status", merged.Status)

	if merged.Status == core.StatusPaid && existing.Status != core.StatusPaid && merged.Type == core.TypeRecurring {
		if _, err := s.spawnOccurrence(ctx, merged); err != nil {
			return core.Payment{}, err
		}
	}

	s.publishEvent(ctx, amqp.ActionUpdated, id, userID)
	return merged, nil
}

// ApplyPayment adds amount to the cumulative paid total. The amount must be
// strictly positive; anything else is rejected before any mutation. The
// status flips to paid once the total is covered, and never moves any other
// direction here: only the synchronizer marks payments overdue.
func (s *PaymentService) ApplyPayment(ctx context.Context, userID, id string, amount decimal.Decimal) (core.Payment, error) {
	if !amount.IsPositive() {
		return core.Payment{}, core.ErrInvalidAmount
	}

	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return core.Payment{}, err
	}

	newPaid := existing.AmountPaid.Add(amount)
	newStatus := existing.Status
	if newPaid.GreaterThanOrEqual(existing.TotalAmount) {
		newStatus = core.StatusPaid
	}

	patch := core.PaymentPatch{AmountPaid: &newPaid, Status: &newStatus}
	if err := s.store.PatchPayment(ctx, id, patch); err != nil {
		return core.Payment{}, fmt.Errorf("patch payment: %w", err)
	}

	updated := existing
	patch.Apply(&updated)

	slog.InfoContext(ctx, "Payment applied",
		"payment_id", id,
		"amount", amount.String(),
		"amount_paid", newPaid.String(),
		"status", newStatus)

	if newStatus == core.StatusPaid && existing.Status != core.StatusPaid {
		if updated.Type == core.TypeRecurring {
			if _, err := s.spawnOccurrence(ctx, updated); err != nil {
				return core.Payment{}, err
			}
		}
		s.publishEvent(ctx, amqp.ActionPaid, id, userID)
	} else {
		s.publishEvent(ctx, amqp.ActionUpdated, id, userID)
	}

	return updated, nil
}

// Delete removes the payment unconditionally. No cascading effects: spawned
// occurrences are independent records and stay.
func (s *PaymentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.RemovePayment(ctx, id); err != nil {
		return fmt.Errorf("remove payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment deleted", "payment_id", id)
	s.publishEvent(ctx, amqp.ActionDeleted, id, userID)
	return nil
}

// List returns the user's payments with overdue status recomputed against the
// current date, filtered and ordered for display. The synchronizer runs on
// every snapshot because persisted status goes stale as the calendar advances.
func (s *PaymentService) List(ctx context.Context, userID, query string, sortBy core.SortOption) ([]core.Payment, error) {
	payments, err := s.store.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	synced := core.Synchronize(payments, s.now())
	return core.Process(synced, query, sortBy), nil
}

// Get returns a single payment owned by the user, synchronized.
func (s *PaymentService) Get(ctx context.Context, userID, id string) (core.Payment, error) {
	p, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return core.Payment{}, err
	}
	return core.Synchronize([]core.Payment{p}, s.now())[0], nil
}

// spawnOccurrence creates the next occurrence of a recurring payment that
// just transitioned into paid. Returns nil without creating anything when a
// record with the same title already sits on the computed next due date; that
// (title, next due date) pair is the dedup key guarding against double spawns
// from retried or out-of-order operations.
func (s *PaymentService) spawnOccurrence(ctx context.Context, src core.Payment) (*core.Payment, error) {
	next := core.NextDueDate(src.DueDate, src.Period)

	known, err := s.store.ListPayments(ctx, src.UserID)
	if err != nil {
		return nil, fmt.Errorf("list payments for dedup: %w", err)
	}
	for _, p := range known {
		if p.Title == src.Title && p.DueDate.Equal(next) {
			slog.InfoContext(ctx, "Next occurrence already exists, skipping spawn",
				"title", src.Title,
				"due_date", next.String())
			return nil, nil
		}
	}

	occ := src
	occ.ID = ""
	occ.DueDate = next
	occ.Status = core.StatusPending
	occ.AmountPaid = decimal.Zero
	occ.CreatedAt = s.now()

	id, err := s.store.InsertPayment(ctx, occ)
	if err != nil {
		return nil, fmt.Errorf("insert next occurrence: %w", err)
	}
	occ.ID = id

	slog.InfoContext(ctx, "Spawned next occurrence",
		"source_id", src.ID,
		"payment_id", occ.ID,
		"title", occ.Title,
		"due_date", next.String())

	s.publishEvent(ctx, amqp.ActionSpawned, occ.ID, occ.UserID)
	return &occ, nil
}

func (s *PaymentService) getOwned(ctx context.Context, userID, id string) (core.Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return core.Payment{}, err
	}
	// Records of other users are indistinguishable from missing ones.
	if p.UserID != userID {
		return core.Payment{}, store.ErrNotFound
	}
	return p, nil
}

func (s *PaymentService) publishEvent(ctx context.Context, action, id, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(ctx, action, id, userID); err != nil {
		// The mutation already succeeded; losing a notification is acceptable.
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"error", err,
			"payment_id", id,
			"action", action)
	}
}
