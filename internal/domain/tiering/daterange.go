package tiering

import (
	"fmt"
	"time"

	"github.com/erp/tiering/internal/domain/shared"
)

// TimestampLayout is the wire format of order creation timestamps:
// a local wall-clock time followed by the recording store's UTC offset.
const TimestampLayout = "2006-01-02 15:04:05 -0700"

// DateLayout is the wire format of configured range boundaries.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar date window. The effective instants
// are [start 00:00:00, end 23:59:59], interpreted in each order's own
// recorded timezone offset rather than one global zone.
// DateRange is immutable.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a DateRange from calendar dates in "2006-01-02" form.
// Start must not be after end.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("invalid range start %q: must be YYYY-MM-DD", start))
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("invalid range end %q: must be YYYY-MM-DD", end))
	}
	if s.After(e) {
		return DateRange{}, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("range start %s is after end %s", start, end))
	}
	return DateRange{start: s, end: e}, nil
}

// Start returns the inclusive start date
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the inclusive end date
func (r DateRange) End() time.Time {
	return r.end
}

// Contains reports whether the raw order timestamp falls inside the window.
// The timestamp's own embedded offset governs both the parse and the
// boundary instants. An unparseable timestamp is simply outside the window.
func (r DateRange) Contains(createdAt string) bool {
	t, err := time.Parse(TimestampLayout, createdAt)
	if err != nil {
		return false
	}
	loc := t.Location()
	sy, sm, sd := r.start.Date()
	ey, em, ed := r.end.Date()
	from := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	to := time.Date(ey, em, ed, 23, 59, 59, 0, loc)
	return !t.Before(from) && !t.After(to)
}

// FilterOrders retains, in input order, the orders that count toward spend
// inside the window: settled status, strictly positive gross total, and a
// creation timestamp inside the range. Orders with a missing or unparseable
// total or timestamp fall out; they are non-matching, not errors.
func (r DateRange) FilterOrders(orders []Order) []Order {
	var kept []Order
	for _, o := range orders {
		if !o.Total.IsPositive() {
			continue
		}
		if !o.IsSettled() {
			continue
		}
		if !r.Contains(o.CreatedAt) {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}
