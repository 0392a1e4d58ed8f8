// Package availability models a user's weekly free/busy schedule as a
// fixed 168-slot mask, Monday 00:00 through Sunday 23:00 in one-hour slots.
package availability

import (
	"fmt"
	"time"
)

const (
	DaysPerWeek  = 7
	HoursPerDay  = 24
	SlotsPerWeek = DaysPerWeek * HoursPerDay
)

// WeekMask is indexed by day*24 + hour where day 0 is Monday.
type WeekMask []bool

type Availability struct {
	UserID    string    `json:"userId"`
	WeekMask  WeekMask  `json:"weekMask"`
	UpdatedAt time.Time `json:"-"`
}

// UpdateAvailabilityRequest decodes slots as pointers so a JSON null is
// told apart from false.
type UpdateAvailabilityRequest struct {
	WeekMask []*bool `json:"weekMask" validate:"required,len=168,dive,required"`
}

// SlotError reports a mask element that was not a boolean.
type SlotError struct {
	Index int
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d is not a boolean", e.Index)
}

// Field is the request path of the offending element.
func (e *SlotError) Field() string {
	return fmt.Sprintf("weekMask[%d]", e.Index)
}

// Mask converts the decoded slots into a WeekMask.
func (r *UpdateAvailabilityRequest) Mask() (WeekMask, error) {
	mask := make(WeekMask, len(r.WeekMask))
	for i, slot := range r.WeekMask {
		if slot == nil {
			return nil, &SlotError{Index: i}
		}
		mask[i] = *slot
	}
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	return mask, nil
}

// NewUpdateRequest builds a request from plain booleans.
func NewUpdateRequest(mask []bool) *UpdateAvailabilityRequest {
	slots := make([]*bool, len(mask))
	for i := range mask {
		slots[i] = &mask[i]
	}
	return &UpdateAvailabilityRequest{WeekMask: slots}
}

// EmptyMask is what a user without a stored schedule gets back.
func EmptyMask() WeekMask {
	return make(WeekMask, SlotsPerWeek)
}

// Default is the availability reported for a user who never wrote one.
func Default(userID string) *Availability {
	return &Availability{UserID: userID, WeekMask: EmptyMask()}
}

// SlotIndex maps a weekday and hour onto the Monday-start mask index.
func SlotIndex(day time.Weekday, hour int) int {
	d := (int(day) + 6) % DaysPerWeek
	return d*HoursPerDay + hour
}

func (m WeekMask) Validate() error {
	if len(m) != SlotsPerWeek {
		return fmt.Errorf("week mask must contain exactly %d slots, got %d", SlotsPerWeek, len(m))
	}
	return nil
}

func (m WeekMask) FreeHours() int {
	n := 0
	for _, free := range m {
		if free {
			n++
		}
	}
	return n
}

// Clone returns a copy so stored masks never alias caller slices.
func (m WeekMask) Clone() WeekMask {
	if m == nil {
		return nil
	}
	out := make(WeekMask, len(m))
	copy(out, m)
	return out
}
