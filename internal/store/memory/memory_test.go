package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"payviu/internal/core"
	"payviu/internal/store"
)

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.InsertPayment(ctx, core.Payment{Title: "Rent", UserID: "u1"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	p, err := st.GetPayment(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != id || p.Title != "Rent" {
		t.Fatalf("unexpected payment: %+v", p)
	}

	if _, err := st.GetPayment(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListPaymentsScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, p := range []core.Payment{
		{Title: "A", UserID: "u1"},
		{Title: "B", UserID: "u2"},
		{Title: "C", UserID: "u1"},
	} {
		if _, err := st.InsertPayment(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := st.ListPayments(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "C" {
		t.Fatalf("unexpected listing: %+v", got)
	}
}

func TestPatchPayment(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, _ := st.InsertPayment(ctx, core.Payment{Title: "Rent", UserID: "u1"})

	title := "Rent Q1"
	paid := decimal.NewFromInt(50)
	if err := st.PatchPayment(ctx, id, core.PaymentPatch{Title: &title, AmountPaid: &paid}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	p, _ := st.GetPayment(ctx, id)
	if p.Title != "Rent Q1" || !p.AmountPaid.Equal(paid) {
		t.Fatalf("patch not applied: %+v", p)
	}

	if err := st.PatchPayment(ctx, "missing", core.PaymentPatch{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRemovePayment(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, _ := st.InsertPayment(ctx, core.Payment{Title: "Rent", UserID: "u1"})
	if err := st.RemovePayment(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := st.GetPayment(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected record gone")
	}
	if err := st.RemovePayment(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListUnpaidPayments(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, p := range []core.Payment{
		{Title: "Pending", Status: core.StatusPending, UserID: "u1"},
		{Title: "Paid", Status: core.StatusPaid, UserID: "u1"},
		{Title: "Overdue", Status: core.StatusOverdue, UserID: "u2"},
	} {
		if _, err := st.InsertPayment(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := st.ListUnpaidPayments(ctx)
	if err != nil {
		t.Fatalf("list unpaid: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Pending" || got[1].Title != "Overdue" {
		t.Fatalf("unexpected unpaid listing: %+v", got)
	}
}
