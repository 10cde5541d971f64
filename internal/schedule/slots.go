package schedule

import (
	"fmt"
	"time"
)

// slotLayout matches the catalog labels: zero-padded 12-hour clock with a
// space before the meridiem marker, e.g. "09:00 AM".
const slotLayout = "03:04 PM"

// slotCatalog is the fixed daily booking grid: twenty half-hour slots from
// 08:00 AM through 05:30 PM.
var slotCatalog = []string{
	"08:00 AM", "08:30 AM", "09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "12:00 PM", "12:30 PM", "01:00 PM", "01:30 PM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
	"05:00 PM", "05:30 PM",
}

// Slots returns the full slot catalog in booking order.
func Slots() []string {
	out := make([]string, len(slotCatalog))
	copy(out, slotCatalog)
	return out
}

// IsSlot reports whether label is a member of the slot catalog.
func IsSlot(label string) bool {
	for _, s := range slotCatalog {
		if s == label {
			return true
		}
	}
	return false
}

// SlotHour converts a 12-hour slot label to its 24-hour hour value.
// PM hours other than 12 gain twelve; 12:xx AM maps to hour zero.
func SlotHour(label string) (int, error) {
	t, err := time.Parse(slotLayout, label)
	if err != nil {
		return 0, fmt.Errorf("%w: bad slot label %q", ErrValidation, label)
	}
	return t.Hour(), nil
}

// FreeSlots returns the catalog slots not held by any non-cancelled
// appointment in appts scheduled on date. Appointments on other dates are
// ignored, so callers may pass an unscoped collection.
func FreeSlots(date string, appts []Appointment) []string {
	taken := make(map[string]bool, len(appts))
	for _, a := range appts {
		if a.Date == date && a.Status != StatusCancelled {
			taken[a.Time] = true
		}
	}

	free := make([]string, 0, len(slotCatalog))
	for _, s := range slotCatalog {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free
}
