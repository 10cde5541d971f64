package schedule

import (
	"errors"
	"testing"
)

func TestNext_ValidTransitions(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusPending, ActionConfirm, StatusConfirmed},
		{StatusConfirmed, ActionStart, StatusInProgress},
		{StatusUrgent, ActionStart, StatusInProgress},
		{StatusInProgress, ActionComplete, StatusCompleted},
		{StatusPending, ActionCancel, StatusCancelled},
		{StatusConfirmed, ActionCancel, StatusCancelled},
		{StatusUrgent, ActionCancel, StatusCancelled},
		{StatusInProgress, ActionCancel, StatusCancelled},
	}
	for _, tc := range cases {
		got, err := Next(tc.from, tc.action)
		if err != nil {
			t.Fatalf("Next(%s, %s): %v", tc.from, tc.action, err)
		}
		if got != tc.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
		}
	}
}

func TestNext_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
	}{
		{StatusConfirmed, ActionConfirm}, // no double confirm
		{StatusCompleted, ActionConfirm},
		{StatusPending, ActionStart}, // pending must be confirmed first
		{StatusPending, ActionComplete},
		{StatusConfirmed, ActionComplete},
	}
	for _, tc := range cases {
		if _, err := Next(tc.from, tc.action); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("Next(%s, %s): expected ErrInvalidTransition, got %v", tc.from, tc.action, err)
		}
	}

	if _, err := Next(StatusPending, Action("reopen")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown action: expected ErrInvalidTransition, got %v", err)
	}
}

func TestNext_TerminalStatesAreFrozen(t *testing.T) {
	actions := []Action{ActionConfirm, ActionStart, ActionComplete, ActionCancel}
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, action := range actions {
			if _, err := Next(from, action); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Next(%s, %s): expected ErrInvalidTransition, got %v", from, action, err)
			}
		}
	}
}
