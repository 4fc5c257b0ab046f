package quota

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestUnlimited_CheckAlwaysAllows(t *testing.T) {
	t.Parallel()

	q := NewUnlimited()
	ctx := context.Background()

	tests := []struct {
		name    string
		subject string
		cost    int
	}{
		{"user subject", "01HZX3K5T9Q2W7E8R4Y6U1I0OP", 1},
		{"ip subject", "203.0.113.9", 1},
		{"empty subject", "", 1},
		{"zero cost", "user-1", 0},
		{"negative cost", "user-1", -5},
		{"huge cost", "user-1", 1 << 30},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := q.Check(ctx, tt.subject, tt.cost)
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if !d.Allowed {
				t.Error("expected Allowed = true")
			}
			if d.Remaining != Unbounded {
				t.Errorf("Remaining = %d, want %d", d.Remaining, Unbounded)
			}
		})
	}
}

func TestUnlimited_RepeatedCalls(t *testing.T) {
	t.Parallel()

	q := NewUnlimited()
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		if err := q.Record(ctx, "user-1", 1); err != nil {
			t.Fatalf("Record returned error on call %d: %v", i, err)
		}
		d, err := q.Check(ctx, "user-1", 1)
		if err != nil {
			t.Fatalf("Check returned error on call %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("Check denied on call %d", i)
		}
	}
}

func TestUnlimited_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var q Quota = NewUnlimited()

	d, err := q.Check(ctx, "user-1", 1)
	if err != nil || !d.Allowed {
		t.Errorf("Check = (%+v, %v), want allowed with nil error", d, err)
	}
	if err := q.Record(ctx, "user-1", 1); err != nil {
		t.Errorf("Record = %v, want nil", err)
	}
}

func TestUnlimited_Concurrent(t *testing.T) {
	t.Parallel()

	q := NewUnlimited()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		go func(i int) {
			subject := fmt.Sprintf("user-%d", i%5)
			_ = q.Record(ctx, subject, 1)
			d, err := q.Check(ctx, subject, 1)
			if err == nil && !d.Allowed {
				err = fmt.Errorf("denied for %s", subject)
			}
			errs <- err
		}(i)
	}

	for i := 0; i < 50; i++ {
		if err := <-errs; err != nil {
			t.Error(err)
		}
	}
}
