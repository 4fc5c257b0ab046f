// Package quota decides whether a subject may spend request budget.
package quota

import (
	"context"
	"time"
)

// Unbounded is the Remaining value reported when no limit applies.
const Unbounded int64 = -1

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Quota checks and records request budget for a subject.
// A subject is usually a user ID, or a client IP for anonymous callers.
type Quota interface {
	Check(ctx context.Context, subject string, cost int) (Decision, error)
	Record(ctx context.Context, subject string, cost int) error
}

// Unlimited is a Quota that admits every request and keeps no state.
type Unlimited struct{}

// NewUnlimited returns a Quota that always allows.
func NewUnlimited() *Unlimited {
	return &Unlimited{}
}

// Check always allows.
func (Unlimited) Check(ctx context.Context, subject string, cost int) (Decision, error) {
	return Decision{Allowed: true, Remaining: Unbounded}, nil
}

// Record is a no-op.
func (Unlimited) Record(ctx context.Context, subject string, cost int) error {
	return nil
}
