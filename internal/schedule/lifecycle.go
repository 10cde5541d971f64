package schedule

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Action is a user-triggered lifecycle step. Status never changes on its own;
// every transition is one of these explicit actions.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Next returns the status an appointment moves to when action is applied in
// state from. Transitions outside the table below fail with
// ErrInvalidTransition; in particular Completed and Cancelled are terminal.
//
//	Pending   --confirm-->  Confirmed
//	Confirmed --start---->  In Progress
//	Urgent    --start---->  In Progress  (urgent intake skips confirmation)
//	In Progress --complete--> Completed
//	any non-terminal --cancel--> Cancelled
func Next(from Status, action Action) (Status, error) {
	switch action {
	case ActionConfirm:
		if from == StatusPending {
			return StatusConfirmed, nil
		}
	case ActionStart:
		if from == StatusConfirmed || from == StatusUrgent {
			return StatusInProgress, nil
		}
	case ActionComplete:
		if from == StatusInProgress {
			return StatusCompleted, nil
		}
	case ActionCancel:
		if !from.Terminal() {
			return StatusCancelled, nil
		}
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	return "", fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, action, from)
}
