package core

import "time"

// Synchronize recomputes overdue status for a snapshot of payments against
// the given wall-clock time. Any non-paid payment whose due date has passed
// becomes overdue and gets the alert color; paid payments are terminal and
// pass through untouched. The input slice is not mutated.
//
// The function is total and idempotent: applying it twice at the same instant
// yields the same result as once, so it is safe to run on every snapshot
// loaded from storage. Payments with a zero due date cannot be compared and
// pass through unchanged; the sweep worker reports those.
func Synchronize(payments []Payment, now time.Time) []Payment {
	today := DateOf(now)
	out := make([]Payment, len(payments))
	for i, p := range payments {
		if p.Status != StatusPaid && !p.DueDate.IsZero() && p.DueDate.Before(today) {
			p.Status = StatusOverdue
			p.Color = OverdueColor
		}
		out[i] = p
	}
	return out
}

// IsPastDue reports whether a due date lies strictly before the day of now.
// It is the single comparison rule shared by Synchronize and the overdue
// sweep so both sides truncate dates the same way.
func IsPastDue(due Date, now time.Time) bool {
	return !due.IsZero() && due.Before(DateOf(now))
}
