package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusOnProgress, true},
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPaymentFailed, true},
		{StatusPending, StatusInTransit, false},
		{StatusPending, StatusCompleted, false},
		{StatusOnProgress, StatusInTransit, true},
		{StatusConfirmed, StatusInTransit, true},
		{StatusOnProgress, StatusCancelled, false},
		{StatusInTransit, StatusCompleted, true},
		{StatusInTransit, StatusCancelled, false},
		{StatusCompleted, StatusInTransit, false},
		{StatusCancelled, StatusOnProgress, false},
		{StatusPaymentFailed, StatusOnProgress, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %t, want %t", c.from, c.to, got, c.want)
		}
	}
}

func TestSettledStatus(t *testing.T) {
	if got := SettledStatus(TypeCharter); got != StatusConfirmed {
		t.Errorf("charter settles to %q, want %q", got, StatusConfirmed)
	}
	if got := SettledStatus(TypePassenger); got != StatusOnProgress {
		t.Errorf("passenger settles to %q, want %q", got, StatusOnProgress)
	}
	// Logistics uses the charter settlement path and must land on the same
	// status whether the client callback or the webhook settles it.
	if got := SettledStatus(TypeLogistics); got != StatusConfirmed {
		t.Errorf("logistics settles to %q, want %q", got, StatusConfirmed)
	}
}
