package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payviu/internal/core"
	"payviu/internal/store"
	"payviu/internal/store/memory"
)

func newTestService(now time.Time) (*PaymentService, *memory.Store) {
	st := memory.New()
	svc := NewPaymentService(st, nil)
	svc.now = func() time.Time { return now }
	return svc, st
}

func listAll(t *testing.T, svc *PaymentService, userID string) []core.Payment {
	t.Helper()
	payments, err := svc.List(context.Background(), userID, "", core.SortByDueDate)
	require.NoError(t, err)
	return payments
}

func TestCreateAppliesDefaults(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	p, err := svc.Create(context.Background(), "u1", CreateParams{})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Untitled", p.Title)
	assert.Equal(t, core.TypeOnetime, p.Type)
	assert.Equal(t, core.Monthly, p.Period)
	assert.Equal(t, core.PriorityMedium, p.Priority)
	assert.True(t, p.DueDate.Equal(core.NewDate(2024, 1, 10)))
	assert.Equal(t, core.DefaultColor, p.Color)
	assert.Equal(t, core.StatusPending, p.Status)
	assert.True(t, p.AmountPaid.IsZero())
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, "u1", p.UserID)
}

func TestCreateForcesAmountPaidToZero(t *testing.T) {
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(context.Background(), "u1", CreateParams{
		Title:       "Rent",
		TotalAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, p.AmountPaid.IsZero())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(time.Now())

	_, err := svc.Create(context.Background(), "u1", CreateParams{
		Title: "Rent",
		Type:  "Sometimes",
	})
	assert.ErrorIs(t, err, core.ErrInvalidType)

	_, err = svc.Create(context.Background(), "u1", CreateParams{
		Title:       "Rent",
		TotalAmount: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestCreatePaidRecurringSpawnsNextOccurrence(t *testing.T) {
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), "u1", CreateParams{
		Title:       "Rent",
		Type:        core.TypeRecurring,
		Status:      core.StatusPaid,
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	payments := listAll(t, svc, "u1")
	require.Len(t, payments, 2)
	next := payments[1]
	assert.True(t, next.DueDate.Equal(core.NewDate(2024, 2, 15)))
	assert.Equal(t, core.StatusPending, next.Status)
	assert.True(t, next.AmountPaid.IsZero())
}

func TestApplyPaymentPartialThenFull(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Insurance",
		Type:        core.TypeOnetime,
		DueDate:     core.NewDate(2024, 2, 1),
		TotalAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	p, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(80))
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, p.Status)
	assert.True(t, p.AmountPaid.Equal(decimal.NewFromInt(80)))

	p, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, core.StatusPaid, p.Status)
	assert.True(t, p.AmountPaid.Equal(decimal.NewFromInt(100)))

	// Onetime payments never spawn occurrences
	assert.Len(t, listAll(t, svc, "u1"), 1)
}

func TestApplyPaymentOverpaymentStillPaid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Phone",
		DueDate:     core.NewDate(2024, 2, 1),
		TotalAmount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	p, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(70))
	require.NoError(t, err)
	assert.Equal(t, core.StatusPaid, p.Status)
	assert.True(t, p.AmountPaid.Equal(decimal.NewFromInt(70)))
}

func TestApplyPaymentRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Water",
		DueDate:     core.NewDate(2024, 2, 1),
		TotalAmount: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.ApplyPayment(ctx, "u1", p.ID, amount)
		assert.ErrorIs(t, err, core.ErrInvalidAmount)
	}

	// The record is untouched
	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestPayingOffRecurringSpawnsNextOccurrence(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Rent",
		Type:        core.TypeRecurring,
		Period:      core.Monthly,
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	payments := listAll(t, svc, "u1")
	require.Len(t, payments, 2)

	var next core.Payment
	for _, cand := range payments {
		if cand.ID != p.ID {
			next = cand
		}
	}
	assert.Equal(t, "Rent", next.Title)
	assert.True(t, next.DueDate.Equal(core.NewDate(2024, 2, 15)))
	assert.Equal(t, core.StatusPending, next.Status)
	assert.True(t, next.AmountPaid.IsZero())
	assert.True(t, next.TotalAmount.Equal(decimal.NewFromInt(500)))
	assert.NotEqual(t, p.ID, next.ID)
}

func TestSpawnDedupOnRepeatedTransition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Gym",
		Type:        core.TypeRecurring,
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.Len(t, listAll(t, svc, "u1"), 2)

	// Knock the original back to pending and pay it off again; the occurrence
	// for Feb 15 already exists, so no second spawn.
	pending := core.StatusPending
	_, err = svc.Update(ctx, "u1", p.ID, core.PaymentPatch{Status: &pending})
	require.NoError(t, err)

	paid := core.StatusPaid
	_, err = svc.Update(ctx, "u1", p.ID, core.PaymentPatch{Status: &paid})
	require.NoError(t, err)

	assert.Len(t, listAll(t, svc, "u1"), 2)
}

func TestUpdateAlreadyPaidDoesNotRespawn(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Netflix",
		Type:        core.TypeRecurring,
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, "u1", p.ID, decimal.NewFromInt(15))
	require.NoError(t, err)
	require.Len(t, listAll(t, svc, "u1"), 2)

	// Patching an already-paid record is not a transition.
	desc := "shared account"
	_, err = svc.Update(ctx, "u1", p.ID, core.PaymentPatch{Description: &desc})
	require.NoError(t, err)

	assert.Len(t, listAll(t, svc, "u1"), 2)
}

func TestUpdateToPaidViaPatchSpawns(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Rent",
		Type:        core.TypeRecurring,
		Period:      core.Weekly,
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	paid := core.StatusPaid
	_, err = svc.Update(ctx, "u1", p.ID, core.PaymentPatch{Status: &paid})
	require.NoError(t, err)

	payments := listAll(t, svc, "u1")
	require.Len(t, payments, 2)
	assert.True(t, payments[1].DueDate.Equal(core.NewDate(2024, 1, 22)))
}

func TestOwnershipHidesOtherUsersPayments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "Rent",
		DueDate:     core.NewDate(2024, 1, 15),
		TotalAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.ApplyPayment(ctx, "u2", p.ID, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.Delete(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Still there for the owner
	_, err = svc.Get(ctx, "u1", p.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	p, err := svc.Create(ctx, "u1", CreateParams{
		Title:   "Old bill",
		DueDate: core.NewDate(2024, 1, 15),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", p.ID))
	assert.Len(t, listAll(t, svc, "u1"), 0)

	err = svc.Delete(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSynchronizesAndSorts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	_, err := svc.Create(ctx, "u1", CreateParams{
		Title:   "Past due",
		DueDate: core.NewDate(2024, 1, 20),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", CreateParams{
		Title:   "Future",
		DueDate: core.NewDate(2024, 2, 20),
	})
	require.NoError(t, err)

	payments, err := svc.List(ctx, "u1", "", core.SortByDueDate)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "Past due", payments[0].Title)
	assert.Equal(t, core.StatusOverdue, payments[0].Status)
	assert.Equal(t, core.OverdueColor, payments[0].Color)
	assert.Equal(t, core.StatusPending, payments[1].Status)

	filtered, err := svc.List(ctx, "u1", "future", core.SortByDueDate)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Future", filtered[0].Title)
}
