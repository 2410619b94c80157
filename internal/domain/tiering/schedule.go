package tiering

import (
	"fmt"

	"github.com/erp/tiering/internal/domain/shared"
	"github.com/erp/tiering/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Band is a Value Object pairing a tier name with the minimum net spend
// that earns it. Band is immutable.
type Band struct {
	threshold decimal.Decimal
	name      string
}

// NewBand creates a Band with the given threshold and tier name
func NewBand(threshold decimal.Decimal, name string) (Band, error) {
	if name == "" {
		return Band{}, shared.NewDomainError("INVALID_SCHEDULE", "tier name cannot be empty")
	}
	if threshold.IsNegative() {
		return Band{}, shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("tier %q threshold cannot be negative", name))
	}
	return Band{threshold: threshold, name: name}, nil
}

// Threshold returns the minimum qualifying net spend for this band
func (b Band) Threshold() decimal.Decimal {
	return b.threshold
}

// Name returns the tier name
func (b Band) Name() string {
	return b.name
}

// Schedule is an ordered list of bands partitioning the non-negative spend
// axis into contiguous half-open intervals: each band except the last covers
// [threshold, next threshold), the last covers [threshold, +inf).
// Schedule is immutable once built.
type Schedule struct {
	bands []Band
}

// NewSchedule builds a Schedule from parallel name and threshold lists,
// lowest tier first. The lists must align 1:1, thresholds must ascend
// strictly, and names must be unique; any violation is fatal configuration,
// reported before the pipeline produces output.
func NewSchedule(names []string, thresholds []decimal.Decimal) (Schedule, error) {
	if len(names) == 0 {
		return Schedule{}, shared.NewDomainError("INVALID_SCHEDULE", "at least one tier is required")
	}
	if len(names) != len(thresholds) {
		return Schedule{}, shared.NewDomainError("INVALID_SCHEDULE",
			fmt.Sprintf("tier names and thresholds must align: %d names, %d thresholds", len(names), len(thresholds)))
	}
	seen := make(map[string]struct{}, len(names))
	bands := make([]Band, len(names))
	for i, name := range names {
		band, err := NewBand(thresholds[i], name)
		if err != nil {
			return Schedule{}, err
		}
		if _, dup := seen[name]; dup {
			return Schedule{}, shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("duplicate tier name %q", name))
		}
		seen[name] = struct{}{}
		if i > 0 && !thresholds[i].GreaterThan(thresholds[i-1]) {
			return Schedule{}, shared.NewDomainError("INVALID_SCHEDULE",
				fmt.Sprintf("thresholds must ascend: %s (%s) does not exceed %s", name, thresholds[i], thresholds[i-1]))
		}
		bands[i] = band
	}
	return Schedule{bands: bands}, nil
}

// Bands returns a copy of the bands in ascending threshold order
func (s Schedule) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}

// Names returns the tier names in declaration (ascending) order
func (s Schedule) Names() []string {
	names := make([]string, len(s.bands))
	for i, b := range s.bands {
		names[i] = b.name
	}
	return names
}

// MinimumThreshold returns the lowest band's threshold, the minimum
// qualifying spend for any tier
func (s Schedule) MinimumThreshold() decimal.Decimal {
	if len(s.bands) == 0 {
		return decimal.Zero
	}
	return s.bands[0].threshold
}

// Classify maps a net spend to its tier name. Each band except the last
// matches threshold <= net < next threshold; the last matches net >= its
// threshold. Bands are contiguous and non-overlapping, so at most one
// matches. The second return is false when net spend sits below the lowest
// threshold.
func (s Schedule) Classify(net valueobject.Money) (string, bool) {
	amount := net.Amount()
	for i, b := range s.bands {
		if amount.LessThan(b.threshold) {
			continue
		}
		if i == len(s.bands)-1 {
			return b.name, true
		}
		if amount.LessThan(s.bands[i+1].threshold) {
			return b.name, true
		}
	}
	return "", false
}

// HasTierTag returns true if any of the customer's tags is a tier name
func (s Schedule) HasTierTag(tags TagSet) bool {
	return tags.ContainsAny(s.Names())
}

// StripTiers returns the tag set with every tier name removed
func (s Schedule) StripTiers(tags TagSet) TagSet {
	return tags.Remove(s.Names())
}

// MergeTags rewrites a tag set for the given net spend: the classified tier
// name goes first and any stale tier tag from a previous classification is
// dropped. When no band matches, the result is the tag set with tier tags
// stripped. Applying the merge twice yields the same single leading tier tag.
func (s Schedule) MergeTags(tags TagSet, net valueobject.Money) TagSet {
	stripped := s.StripTiers(tags)
	name, ok := s.Classify(net)
	if !ok {
		return stripped
	}
	return stripped.Prepend(name)
}
