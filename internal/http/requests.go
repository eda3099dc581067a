package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"payviu/internal/core"
	"payviu/internal/services"
)

// validate checks enum membership and date formats on request DTOs before
// anything reaches the lifecycle engine.
var validate = validator.New()

type createPaymentRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type" validate:"omitempty,oneof=Onetime Recurring"`
	Period      string          `json:"period" validate:"omitempty,oneof=weekly biweekly monthly semi-annually annually"`
	Priority    string          `json:"priority" validate:"omitempty,oneof=Urgent Critical High Medium Low"`
	DueDate     string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Color       string          `json:"color"`
	Status      string          `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"-"`
}

func (req createPaymentRequest) toParams() (services.CreateParams, error) {
	params := services.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Type:        core.PaymentType(req.Type),
		Period:      core.Period(req.Period),
		Priority:    core.Priority(req.Priority),
		Color:       req.Color,
		Status:      core.Status(req.Status),
		TotalAmount: req.TotalAmount,
	}
	if req.DueDate != "" {
		due, err := core.ParseDate(req.DueDate)
		if err != nil {
			return services.CreateParams{}, err
		}
		params.DueDate = due
	}
	return params, nil
}

type updatePaymentRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Type        *string          `json:"type" validate:"omitempty,oneof=Onetime Recurring"`
	Period      *string          `json:"period" validate:"omitempty,oneof=weekly biweekly monthly semi-annually annually"`
	Priority    *string          `json:"priority" validate:"omitempty,oneof=Urgent Critical High Medium Low"`
	DueDate     *string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Color       *string          `json:"color"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"-"`
	AmountPaid  *decimal.Decimal `json:"amountPaid" validate:"-"`
}

func (req updatePaymentRequest) toPatch() (core.PaymentPatch, error) {
	patch := core.PaymentPatch{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		TotalAmount: req.TotalAmount,
		AmountPaid:  req.AmountPaid,
	}
	if req.Type != nil {
		t := core.PaymentType(*req.Type)
		patch.Type = &t
	}
	if req.Period != nil {
		p := core.Period(*req.Period)
		patch.Period = &p
	}
	if req.Priority != nil {
		p := core.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := core.Status(*req.Status)
		patch.Status = &s
	}
	if req.DueDate != nil {
		due, err := core.ParseDate(*req.DueDate)
		if err != nil {
			return core.PaymentPatch{}, err
		}
		patch.DueDate = &due
	}
	return patch, nil
}

type applyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"-"`
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}
