package ledger

import "fmt"

// ViolationKind classifies one submit-blocking problem.
type ViolationKind int

const (
	SumMismatch ViolationKind = iota
	NegativeQuantity
	MissingLocation
	MissingRequiredField
)

// Violation is one problem that blocks submission. All violations are
// recoverable within the open form.
type Violation struct {
	Kind     ViolationKind
	Category Category
	Field    string
}

// Message renders a user-facing description of the violation.
func (v Violation) Message() string {
	switch v.Kind {
	case SumMismatch:
		return "category quantities must add up to the received quantity"
	case NegativeQuantity:
		return fmt.Sprintf("%s quantity must be 0 or greater", v.Category)
	case MissingLocation:
		return fmt.Sprintf("%s stock needs a complete warehouse location", v.Category)
	case MissingRequiredField:
		return fmt.Sprintf("%s is required", v.Field)
	}
	return "invalid input"
}

// Location identifies a warehouse slot. All four tokens are free text.
type Location struct {
	Zone  string
	Aisle string
	Shelf string
	Bin   string
}

// Complete reports whether every token is non-empty.
func (loc Location) Complete() bool {
	return loc.Zone != "" && loc.Aisle != "" && loc.Shelf != "" && loc.Bin != ""
}

// Config carries the operational settings a call site injects instead of
// reading ambient state: the process-wide location for expired stock and
// feature toggles.
type Config struct {
	ExpiredLocation     Location
	AutoCalculate       bool
	IntakeEnabled       bool
	DistributionEnabled bool
}

// Validate checks the ledger against its invariants and the supplied
// per-category locations. Expired stock never needs its own location; it
// resolves to the configured default. An empty result means the ledger may be
// submitted.
func (l *Ledger) Validate(locations map[Category]Location, cfg Config) []Violation {
	violations := make([]Violation, 0)
	if !l.Balanced() {
		violations = append(violations, Violation{Kind: SumMismatch})
	}
	for _, c := range l.shape.categories {
		if l.qty[c] < 0 {
			violations = append(violations, Violation{Kind: NegativeQuantity, Category: c})
		}
	}
	if l.shape.needsLocations {
		for _, c := range l.shape.categories {
			if l.qty[c] <= 0 || c == Expired {
				continue
			}
			if !locations[c].Complete() {
				violations = append(violations, Violation{Kind: MissingLocation, Category: c})
			}
		}
	}
	return violations
}

// ResolveLocation returns the location for a category, substituting the
// configured default for expired stock.
func ResolveLocation(c Category, locations map[Category]Location, cfg Config) Location {
	if c == Expired {
		return cfg.ExpiredLocation
	}
	return locations[c]
}

// RequireFields checks sibling form fields covered by the same submit gate
// as the ledger. Keys are field names, values the trimmed user input.
func RequireFields(fields map[string]string) []Violation {
	violations := make([]Violation, 0)
	for name, value := range fields {
		if value == "" {
			violations = append(violations, Violation{Kind: MissingRequiredField, Field: name})
		}
	}
	return violations
}
