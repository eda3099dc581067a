package core

import (
	"testing"
	"time"
)

func TestSynchronize(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		payment   Payment
		wantState Status
		wantColor string
	}{
		{
			name:      "pending due yesterday becomes overdue",
			payment:   Payment{Status: StatusPending, DueDate: NewDate(2024, 1, 1), Color: DefaultColor},
			wantState: StatusOverdue,
			wantColor: OverdueColor,
		},
		{
			name:      "pending due today stays pending",
			payment:   Payment{Status: StatusPending, DueDate: NewDate(2024, 1, 2), Color: DefaultColor},
			wantState: StatusPending,
			wantColor: DefaultColor,
		},
		{
			name:      "pending due tomorrow stays pending",
			payment:   Payment{Status: StatusPending, DueDate: NewDate(2024, 1, 3), Color: DefaultColor},
			wantState: StatusPending,
			wantColor: DefaultColor,
		},
		{
			name:      "paid is terminal even when past due",
			payment:   Payment{Status: StatusPaid, DueDate: NewDate(2023, 12, 1), Color: DefaultColor},
			wantState: StatusPaid,
			wantColor: DefaultColor,
		},
		{
			name:      "already overdue keeps alert color",
			payment:   Payment{Status: StatusOverdue, DueDate: NewDate(2023, 12, 1), Color: OverdueColor},
			wantState: StatusOverdue,
			wantColor: OverdueColor,
		},
		{
			name:      "zero due date passes through",
			payment:   Payment{Status: StatusPending, Color: DefaultColor},
			wantState: StatusPending,
			wantColor: DefaultColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synchronize([]Payment{tt.payment}, now)
			if got[0].Status != tt.wantState {
				t.Errorf("status = %s, want %s", got[0].Status, tt.wantState)
			}
			if got[0].Color != tt.wantColor {
				t.Errorf("color = %s, want %s", got[0].Color, tt.wantColor)
			}
		})
	}
}

func TestSynchronizeDoesNotMutateInput(t *testing.T) {
	in := []Payment{{Status: StatusPending, DueDate: NewDate(2024, 1, 1), Color: DefaultColor}}
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	Synchronize(in, now)

	if in[0].Status != StatusPending || in[0].Color != DefaultColor {
		t.Fatalf("input slice was mutated: %+v", in[0])
	}
}

func TestSynchronizeIdempotent(t *testing.T) {
	in := []Payment{
		{Status: StatusPending, DueDate: NewDate(2024, 1, 1), Color: DefaultColor},
		{Status: StatusPaid, DueDate: NewDate(2024, 1, 1), Color: DefaultColor},
	}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	once := Synchronize(in, now)
	twice := Synchronize(once, now)

	for i := range once {
		if once[i].Status != twice[i].Status || once[i].Color != twice[i].Color {
			t.Errorf("payment %d changed on second pass: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestIsPastDue(t *testing.T) {
	now := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)

	if !IsPastDue(NewDate(2024, 1, 1), now) {
		t.Errorf("yesterday should be past due")
	}
	if IsPastDue(NewDate(2024, 1, 2), now) {
		t.Errorf("today is not past due")
	}
	if IsPastDue(Date{}, now) {
		t.Errorf("zero date is never past due")
	}
}
