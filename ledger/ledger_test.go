package ledger

import (
	"testing"
	"time"
)

func TestNewIntakeStartsBalanced(t *testing.T) {
	l := NewIntake(100, true)
	if !l.Balanced() {
		t.Fatalf("new ledger must be balanced, sum=%d received=%d", l.Sum(), l.Received())
	}
	if l.Quantity(Passed) != 100 {
		t.Fatalf("expected passed=100, got %d", l.Quantity(Passed))
	}
}

func TestSetCategoryAutoDerivesPassed(t *testing.T) {
	l := NewIntake(100, true)
	if err := l.SetCategory(Damaged, 30); err != nil {
		t.Fatalf("set damaged: %v", err)
	}
	if l.Quantity(Passed) != 70 {
		t.Fatalf("expected passed=70, got %d", l.Quantity(Passed))
	}
	if l.Quantity(Expired) != 0 || l.Quantity(Refurbished) != 0 {
		t.Fatalf("other categories must be unchanged")
	}
	if !l.Balanced() {
		t.Fatalf("ledger must stay balanced under auto-calculate")
	}
}

func TestSetCategoryClampsNegativeToZero(t *testing.T) {
	l := NewIntake(50, true)
	if err := l.SetCategory(Damaged, -7); err != nil {
		t.Fatalf("set damaged: %v", err)
	}
	if l.Quantity(Damaged) != 0 {
		t.Fatalf("expected clamped 0, got %d", l.Quantity(Damaged))
	}
	for _, c := range l.Shape().Categories() {
		if l.Quantity(c) < 0 {
			t.Fatalf("category %s went negative", c)
		}
	}
}

func TestSetCategoryRejectsForeignCategory(t *testing.T) {
	l := NewDistribution(20, false)
	if err := l.SetCategory(Damaged, 1); err == nil {
		t.Fatalf("expected error for damaged on distribution ledger")
	}
}

func TestSetCategoryIdempotent(t *testing.T) {
	l := NewIntake(100, true)
	if err := l.SetCategory(Damaged, 30); err != nil {
		t.Fatalf("set damaged: %v", err)
	}
	before := l.Quantities()
	if err := l.SetCategory(Damaged, 30); err != nil {
		t.Fatalf("set damaged again: %v", err)
	}
	for c, q := range l.Quantities() {
		if before[c] != q {
			t.Fatalf("category %s changed from %d to %d", c, before[c], q)
		}
	}
}

func TestManualModeLeavesOthersUntouched(t *testing.T) {
	l := NewIntake(50, false)
	if err := l.SetCategory(Damaged, 10); err != nil {
		t.Fatalf("set damaged: %v", err)
	}
	if l.Quantity(Passed) != 50 {
		t.Fatalf("manual mode must not recompute passed, got %d", l.Quantity(Passed))
	}
	violations := l.Validate(completeLocations(), Config{})
	if !hasKind(violations, SumMismatch) {
		t.Fatalf("expected SumMismatch, got %v", violations)
	}
}

func TestScaleToPreservesRatio(t *testing.T) {
	l := NewDistribution(100, false)
	mustSet(t, l, Online, 60)
	mustSet(t, l, Offline, 40)

	l.ScaleTo(50)

	if l.Quantity(Online) != 30 {
		t.Fatalf("expected online=30, got %d", l.Quantity(Online))
	}
	if l.Quantity(Offline) != 20 {
		t.Fatalf("expected offline=20, got %d", l.Quantity(Offline))
	}
	if !l.Balanced() {
		t.Fatalf("scaled ledger must balance exactly")
	}
}

func TestScaleToRoundingNeverExceedsTotal(t *testing.T) {
	l := NewDistribution(10, false)
	mustSet(t, l, Online, 7)
	mustSet(t, l, Offline, 3)

	l.ScaleTo(3)

	if l.Sum() != 3 {
		t.Fatalf("expected sum 3, got %d", l.Sum())
	}
	if l.Quantity(Online) != 2 || l.Quantity(Offline) != 1 {
		t.Fatalf("expected 2/1 split, got %d/%d", l.Quantity(Online), l.Quantity(Offline))
	}
}

func TestScaleToLeavesUnderAllocationAlone(t *testing.T) {
	l := NewDistribution(100, false)
	mustSet(t, l, Online, 10)
	mustSet(t, l, Offline, 10)

	l.ScaleTo(50)

	if l.Quantity(Online) != 10 || l.Quantity(Offline) != 10 {
		t.Fatalf("quantities below the new total must not change")
	}
	if l.Received() != 50 {
		t.Fatalf("expected received=50, got %d", l.Received())
	}
}

func TestApplyExpiryCollapsesAndLocks(t *testing.T) {
	l := NewIntake(40, true)
	mustSet(t, l, Damaged, 5)

	yesterday := time.Now().AddDate(0, 0, -1)
	if err := l.ApplyExpiry(ExpiryAssignment{HasExpiry: true, ExpiryDate: yesterday}, time.Now()); err != nil {
		t.Fatalf("apply expiry: %v", err)
	}

	if l.Quantity(Expired) != 40 {
		t.Fatalf("expected expired=40, got %d", l.Quantity(Expired))
	}
	for _, c := range []Category{Damaged, Refurbished, Passed} {
		if l.Quantity(c) != 0 {
			t.Fatalf("expected %s=0, got %d", c, l.Quantity(c))
		}
	}
	if !l.Locked() {
		t.Fatalf("expired ledger must be locked")
	}

	if err := l.SetCategory(Damaged, 3); err != nil {
		t.Fatalf("set on locked ledger: %v", err)
	}
	if l.Quantity(Damaged) != 0 {
		t.Fatalf("locked ledger must ignore edits")
	}
}

func TestApplyExpiryFutureDateResetsToPassed(t *testing.T) {
	l := NewIntake(40, true)
	yesterday := time.Now().AddDate(0, 0, -1)
	if err := l.ApplyExpiry(ExpiryAssignment{HasExpiry: true, ExpiryDate: yesterday}, time.Now()); err != nil {
		t.Fatalf("apply expiry: %v", err)
	}

	nextMonth := time.Now().AddDate(0, 1, 0)
	if err := l.ApplyExpiry(ExpiryAssignment{HasExpiry: true, ExpiryDate: nextMonth}, time.Now()); err != nil {
		t.Fatalf("apply future expiry: %v", err)
	}

	if l.Locked() {
		t.Fatalf("future expiry must unlock the ledger")
	}
	if l.Quantity(Passed) != 40 || l.Quantity(Expired) != 0 {
		t.Fatalf("expected reset to all-passed, got passed=%d expired=%d", l.Quantity(Passed), l.Quantity(Expired))
	}
}

func TestApplyExpiryRejectsDistributionShape(t *testing.T) {
	l := NewDistribution(10, false)
	err := l.ApplyExpiry(ExpiryAssignment{HasExpiry: true, ExpiryDate: time.Now()}, time.Now())
	if err == nil {
		t.Fatalf("expected error for distribution shape")
	}
}

func TestApplyExpiryBulkCountsAffected(t *testing.T) {
	fresh := NewIntake(10, true)
	alreadyExpired := NewIntake(20, true)
	yesterday := time.Now().AddDate(0, 0, -1)
	if err := alreadyExpired.ApplyExpiry(ExpiryAssignment{HasExpiry: true, ExpiryDate: yesterday}, time.Now()); err != nil {
		t.Fatalf("seed expired ledger: %v", err)
	}

	affected, err := ApplyExpiryBulk([]*Ledger{fresh, alreadyExpired}, ExpiryAssignment{HasExpiry: true, ExpiryDate: yesterday}, time.Now())
	if err != nil {
		t.Fatalf("bulk apply: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected ledger, got %d", affected)
	}
	if fresh.Quantity(Expired) != 10 {
		t.Fatalf("fresh ledger must have collapsed")
	}
}

func TestIntakeHappyPath(t *testing.T) {
	l := NewIntake(50, true)
	mustSet(t, l, Damaged, 5)
	mustSet(t, l, Expired, 0)
	mustSet(t, l, Refurbished, 5)

	if l.Quantity(Passed) != 40 {
		t.Fatalf("expected passed=40, got %d", l.Quantity(Passed))
	}
	violations := l.Validate(completeLocations(), Config{})
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestDistributionMismatchBlocksSubmit(t *testing.T) {
	l := NewDistribution(20, false)
	mustSet(t, l, Online, 15)
	mustSet(t, l, Offline, 10)

	violations := l.Validate(nil, Config{})
	if len(violations) != 1 || violations[0].Kind != SumMismatch {
		t.Fatalf("expected exactly [SumMismatch], got %v", violations)
	}
}

func TestValidateMissingLocation(t *testing.T) {
	l := NewIntake(10, true)
	mustSet(t, l, Damaged, 4)

	locations := completeLocations()
	locations[Damaged] = Location{Zone: "A"}
	violations := l.Validate(locations, Config{})
	if !hasKind(violations, MissingLocation) {
		t.Fatalf("expected MissingLocation, got %v", violations)
	}
}

func TestValidateExpiredNeedsNoLocation(t *testing.T) {
	l := NewIntake(10, true)
	mustSet(t, l, Expired, 10)

	cfg := Config{ExpiredLocation: Location{Zone: "Q", Aisle: "1", Shelf: "1", Bin: "EXP"}}
	violations := l.Validate(map[Category]Location{}, cfg)
	if len(violations) != 0 {
		t.Fatalf("expired stock must not need its own location, got %v", violations)
	}
	loc := ResolveLocation(Expired, nil, cfg)
	if loc != cfg.ExpiredLocation {
		t.Fatalf("expected default expired location, got %+v", loc)
	}
}

func TestRequireFields(t *testing.T) {
	violations := RequireFields(map[string]string{"name": "", "code": "ABC"})
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", violations)
	}
	if violations[0].Kind != MissingRequiredField || violations[0].Field != "name" {
		t.Fatalf("unexpected violation %+v", violations[0])
	}
}

func mustSet(t *testing.T, l *Ledger, c Category, qty int64) {
	t.Helper()
	if err := l.SetCategory(c, qty); err != nil {
		t.Fatalf("set %s: %v", c, err)
	}
}

func completeLocations() map[Category]Location {
	full := Location{Zone: "A", Aisle: "1", Shelf: "2", Bin: "3"}
	return map[Category]Location{
		Damaged:     full,
		Refurbished: full,
		Passed:      full,
	}
}

func hasKind(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
