package schedule

import "fmt"

type TimeRange string

const (
	RangeAll       TimeRange = "all"
	RangeMorning   TimeRange = "morning"   // 08:00 - 11:59
	RangeAfternoon TimeRange = "afternoon" // 12:00 - 16:59
	RangeEvening   TimeRange = "evening"   // 17:00 - 19:59
)

// ParseTimeRange accepts the four known bucket names. The empty string means
// "all"; anything else is a validation error rather than a silent empty match.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case RangeAll, RangeMorning, RangeAfternoon, RangeEvening:
		return TimeRange(s), nil
	case "":
		return RangeAll, nil
	}
	return "", fmt.Errorf("%w: unknown time range %q", ErrValidation, s)
}

func (r TimeRange) contains(hour int) bool {
	switch r {
	case RangeAll:
		return true
	case RangeMorning:
		return hour >= 8 && hour < 12
	case RangeAfternoon:
		return hour >= 12 && hour < 17
	case RangeEvening:
		return hour >= 17 && hour < 20
	}
	return false
}

// Criteria is the ephemeral filter a caller holds for one view session.
// The zero value passes every appointment on the selected date.
type Criteria struct {
	Status    []Status
	Type      []AppointmentType
	TimeRange TimeRange
}

// Clear resets the criteria to its pass-everything form.
func (c *Criteria) Clear() {
	c.Status = nil
	c.Type = nil
	c.TimeRange = RangeAll
}

// Match reports whether a single appointment passes the criteria. Predicates
// are AND-combined; each set is an OR over its members and an empty set
// passes everything.
func (c Criteria) Match(a Appointment) bool {
	if len(c.Status) > 0 && !containsStatus(c.Status, a.Status) {
		return false
	}
	if len(c.Type) > 0 && !containsType(c.Type, a.Type) {
		return false
	}
	if c.TimeRange != RangeAll && c.TimeRange != "" {
		hour, err := SlotHour(a.Time)
		if err != nil {
			return false
		}
		if !c.TimeRange.contains(hour) {
			return false
		}
	}
	return true
}

// Apply scopes appts to the selected date and then filters by the criteria,
// preserving the input order. An empty result is a normal outcome.
func (c Criteria) Apply(date string, appts []Appointment) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Date != date {
			continue
		}
		if c.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

func containsStatus(set []Status, s Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsType(set []AppointmentType, t AppointmentType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}
