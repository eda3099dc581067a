package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"

	TypeOnetime   PaymentType = "Onetime"
	TypeRecurring PaymentType = "Recurring"

	PriorityUrgent   Priority = "Urgent"
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"

	Weekly     Period = "weekly"
	Biweekly   Period = "biweekly"
	Monthly    Period = "monthly"
	Semiannual Period = "semi-annually"
	Annual     Period = "annually"
)

// DefaultColor is the display hint stamped on new payments; OverdueColor is
// forced onto any payment the synchronizer flips to overdue.
const (
	DefaultColor = "#0ea5e9"
	OverdueColor = "#ef4444"
)

type (
	Status      string
	PaymentType string
	Priority    string
	Period      string

	// Payment is the sole persistent entity: a bill with a target amount,
	// a cumulative paid amount, and a derived status.
	Payment struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Type        PaymentType     `json:"type"`
		Period      Period          `json:"period,omitempty"`
		Priority    Priority        `json:"priority"`
		DueDate     Date            `json:"dueDate"`
		Color       string          `json:"color"`
		Status      Status          `json:"status"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		AmountPaid  decimal.Decimal `json:"amountPaid"`
		CreatedAt   time.Time       `json:"createdAt"`
		UserID      string          `json:"userId"`
	}

	// PaymentPatch is a partial overwrite: nil fields keep the prior value.
	// ID, CreatedAt and UserID are deliberately absent; they never change
	// after creation.
	PaymentPatch struct {
		Title       *string
		Description *string
		Type        *PaymentType
		Period      *Period
		Priority    *Priority
		DueDate     *Date
		Color       *string
		Status      *Status
		TotalAmount *decimal.Decimal
		AmountPaid  *decimal.Decimal
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidType     = errors.New("invalid payment type")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidPeriod   = errors.New("invalid recurrence period")
	ErrInvalidDueDate  = errors.New("invalid due date")
	ErrEmptyTitle      = errors.New("empty title")
)

// priorityWeights orders priorities for sorting; higher sorts first.
var priorityWeights = map[Priority]int{
	PriorityUrgent:   5,
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// Weight returns the sort weight of the priority (Urgent=5 .. Low=1).
// Unknown priorities weigh 0 and sort last.
func (p Priority) Weight() int {
	return priorityWeights[p]
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

func (t PaymentType) Valid() bool {
	return t == TypeOnetime || t == TypeRecurring
}

func (p Priority) Valid() bool {
	_, ok := priorityWeights[p]
	return ok
}

func (p Period) Valid() bool {
	switch p {
	case Weekly, Biweekly, Monthly, Semiannual, Annual:
		return true
	}
	return false
}

func (p Payment) Validate() error {
	if len(strings.TrimSpace(p.Title)) == 0 {
		return ErrEmptyTitle
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if !p.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Period != "" && !p.Period.Valid() {
		return ErrInvalidPeriod
	}
	if p.DueDate.IsZero() {
		return ErrInvalidDueDate
	}
	if p.TotalAmount.IsNegative() || p.AmountPaid.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Apply merges the patch over p in place. Nil fields are left untouched.
func (patch PaymentPatch) Apply(p *Payment) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Period != nil {
		p.Period = *patch.Period
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		p.DueDate = *patch.DueDate
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.TotalAmount != nil {
		p.TotalAmount = *patch.TotalAmount
	}
	if patch.AmountPaid != nil {
		p.AmountPaid = *patch.AmountPaid
	}
}
