// Package ledger keeps a quantity breakdown for one stock line internally
// consistent as categories are edited, and reports violations before the
// caller is allowed to persist it. It is pure computation: no I/O, no shared
// state, one ledger per open form.
package ledger

import (
	"fmt"
	"time"
)

// Category names one bucket of a quantity breakdown.
type Category string

const (
	Damaged     Category = "damaged"
	Expired     Category = "expired"
	Refurbished Category = "refurbished"
	Passed      Category = "passed"

	Online  Category = "online"
	Offline Category = "offline"
)

// Shape fixes which categories are legal for a ledger and which one is
// derived when auto-calculate is on.
type Shape struct {
	name           string
	categories     []Category
	derived        Category
	needsLocations bool
}

// IntakeShape partitions received stock into quality buckets; Passed is
// derived from the rest. Each non-empty bucket is stored at a warehouse
// location.
var IntakeShape = Shape{
	name:           "intake",
	categories:     []Category{Damaged, Expired, Refurbished, Passed},
	derived:        Passed,
	needsLocations: true,
}

// DistributionShape splits available stock between channels; Offline is
// derived from Online. Channels are not physical slots, so no locations.
var DistributionShape = Shape{
	name:       "distribution",
	categories: []Category{Online, Offline},
	derived:    Offline,
}

// Name returns the shape name.
func (s Shape) Name() string { return s.name }

// Categories returns the shape's categories in fixed order.
func (s Shape) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

// Derived returns the auto-derived category.
func (s Shape) Derived() Category { return s.derived }

// Has reports whether c is legal for this shape.
func (s Shape) Has(c Category) bool {
	for _, cat := range s.categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Ledger is the reconciled quantity breakdown for one line item at one
// processing stage. A ledger is balanced when the category quantities sum to
// Received.
type Ledger struct {
	shape    Shape
	received int64
	qty      map[Category]int64
	autoCalc bool
	locked   bool
}

// New creates a ledger with the whole received quantity in the derived
// category, which is the balanced starting point for every form.
func New(shape Shape, received int64, autoCalc bool) *Ledger {
	if received < 0 {
		received = 0
	}
	l := &Ledger{
		shape:    shape,
		received: received,
		qty:      make(map[Category]int64, len(shape.categories)),
		autoCalc: autoCalc,
	}
	for _, c := range shape.categories {
		l.qty[c] = 0
	}
	l.qty[shape.derived] = received
	return l
}

// NewIntake creates an intake-shape ledger.
func NewIntake(received int64, autoCalc bool) *Ledger {
	return New(IntakeShape, received, autoCalc)
}

// NewDistribution creates a distribution-shape ledger over the available
// quantity.
func NewDistribution(available int64, autoCalc bool) *Ledger {
	return New(DistributionShape, available, autoCalc)
}

// Shape returns the ledger shape.
func (l *Ledger) Shape() Shape { return l.shape }

// Received returns the total quantity the ledger partitions.
func (l *Ledger) Received() int64 { return l.received }

// Locked reports whether the ledger is read-only (expired state).
func (l *Ledger) Locked() bool { return l.locked }

// Quantity returns the quantity recorded against c.
func (l *Ledger) Quantity(c Category) int64 { return l.qty[c] }

// Quantities returns a copy of all category quantities.
func (l *Ledger) Quantities() map[Category]int64 {
	out := make(map[Category]int64, len(l.qty))
	for c, q := range l.qty {
		out[c] = q
	}
	return out
}

// Sum returns the total across all categories.
func (l *Ledger) Sum() int64 {
	var sum int64
	for _, q := range l.qty {
		sum += q
	}
	return sum
}

// Balanced reports whether the category quantities sum to Received.
func (l *Ledger) Balanced() bool { return l.Sum() == l.received }

// SetCategory records qty against c. Negative quantities are clamped to 0.
// While the ledger is locked the call is a no-op. When auto-calculate is on
// and c is not the derived category, the derived category is recomputed as
// max(0, received - sum(others)).
func (l *Ledger) SetCategory(c Category, qty int64) error {
	if !l.shape.Has(c) {
		return fmt.Errorf("category %q is not valid for %s ledger", c, l.shape.name)
	}
	if l.locked {
		return nil
	}
	if qty < 0 {
		qty = 0
	}
	l.qty[c] = qty
	if l.autoCalc && c != l.shape.derived {
		var others int64
		for _, cat := range l.shape.categories {
			if cat == l.shape.derived {
				continue
			}
			others += l.qty[cat]
		}
		derived := l.received - others
		if derived < 0 {
			derived = 0
		}
		l.qty[l.shape.derived] = derived
	}
	return nil
}

// ScaleTo shrinks the ledger to a new total. When the recorded quantities
// exceed the new total they are scaled down preserving their relative ratio:
// floor for all but the last category, with the last category absorbing the
// rounding remainder so the sum equals the new total exactly.
func (l *Ledger) ScaleTo(total int64) {
	if l.locked {
		return
	}
	if total < 0 {
		total = 0
	}
	oldSum := l.Sum()
	l.received = total
	if oldSum <= total {
		return
	}
	var assigned int64
	for i, c := range l.shape.categories {
		if i == len(l.shape.categories)-1 {
			l.qty[c] = total - assigned
			break
		}
		scaled := l.qty[c] * total / oldSum
		l.qty[c] = scaled
		assigned += scaled
	}
}

// ExpiryAssignment is attached to a line item when the product is
// expiry-eligible.
type ExpiryAssignment struct {
	HasExpiry  bool
	ExpiryDate time.Time
}

// IsExpired reports whether the expiry date has passed as of now.
func (e ExpiryAssignment) IsExpired(now time.Time) bool {
	return e.HasExpiry && !e.ExpiryDate.After(now)
}

// ApplyExpiry reconciles the ledger with an expiry assignment. An expired
// assignment collapses the whole received quantity into Expired and locks the
// ledger. A non-expired assignment on a locked ledger resets to all-Passed
// and unlocks; prior quantities are not restored.
func (l *Ledger) ApplyExpiry(e ExpiryAssignment, now time.Time) error {
	if !l.shape.Has(Expired) {
		return fmt.Errorf("%s ledger has no expired category", l.shape.name)
	}
	if e.IsExpired(now) {
		for _, c := range l.shape.categories {
			l.qty[c] = 0
		}
		l.qty[Expired] = l.received
		l.locked = true
		return nil
	}
	if l.locked {
		for _, c := range l.shape.categories {
			l.qty[c] = 0
		}
		l.qty[Passed] = l.received
		l.locked = false
	}
	return nil
}

// ApplyExpiryBulk applies one expiry assignment to every ledger and returns
// how many of them changed.
func ApplyExpiryBulk(ledgers []*Ledger, e ExpiryAssignment, now time.Time) (affected int, err error) {
	for _, l := range ledgers {
		before := l.Quantities()
		wasLocked := l.locked
		if applyErr := l.ApplyExpiry(e, now); applyErr != nil {
			return affected, applyErr
		}
		if wasLocked != l.locked {
			affected++
			continue
		}
		for c, q := range l.Quantities() {
			if before[c] != q {
				affected++
				break
			}
		}
	}
	return affected, nil
}
