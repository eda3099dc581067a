package store

import (
	"context"
	"errors"

	"payviu/internal/core"
)

// ErrNotFound signals an id that does not exist in the store.
var ErrNotFound = errors.New("payment not found")

// Ports for the payment document store. Implementations generate the id on
// insert and treat patch as a partial overwrite of the stored document.
type (
	PaymentLister interface {
		// ListPayments returns every payment owned by the user.
		ListPayments(ctx context.Context, userID string) ([]core.Payment, error)
	}

	PaymentGetter interface {
		GetPayment(ctx context.Context, id string) (core.Payment, error)
	}

	PaymentInserter interface {
		// InsertPayment persists p (its ID field is ignored) and returns the
		// generated id.
		InsertPayment(ctx context.Context, p core.Payment) (string, error)
	}

	PaymentPatcher interface {
		PatchPayment(ctx context.Context, id string, patch core.PaymentPatch) error
	}

	PaymentRemover interface {
		RemovePayment(ctx context.Context, id string) error
	}

	// UnpaidLister feeds the overdue sweep: all non-paid payments across
	// every user.
	UnpaidLister interface {
		ListUnpaidPayments(ctx context.Context) ([]core.Payment, error)
	}

	// PaymentStore is the full document-store contract the lifecycle engine
	// depends on.
	PaymentStore interface {
		PaymentLister
		PaymentGetter
		PaymentInserter
		PaymentPatcher
		PaymentRemover
	}
)
