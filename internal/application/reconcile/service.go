package reconcile

import (
	"sort"

	"github.com/erp/tiering/internal/domain/tiering"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Input carries one run's datasets: the full customer and order batches
// as loaded from the tabular source.
type Input struct {
	Customers []tiering.Customer
	Orders    []tiering.Order
}

// Segment is the per-tier slice of newly classified customers
type Segment struct {
	Tier      string
	Customers []tiering.Customer
}

// Result holds every table the reconciliation produces. Customer slices are
// derived copies; the input batch is never mutated.
type Result struct {
	RunID          uuid.UUID
	FilteredOrders []tiering.Order
	SortedOrders   []tiering.Order
	SpendQualified []tiering.Customer
	CurrentTier    []tiering.Customer
	NewTier        []tiering.Customer
	Segments       []Segment
	Changed        []tiering.Customer
}

// Service reconciles customers against orders and reclassifies tier
// membership for one batch. It runs once, end to end; recoverable record
// defects are excluded from the relevant computation rather than failing
// the run.
type Service struct {
	schedule tiering.Schedule
	window   tiering.DateRange
	logger   *zap.Logger
}

// NewService creates a reconciliation Service for the given tier schedule
// and date window
func NewService(schedule tiering.Schedule, window tiering.DateRange, logger *zap.Logger) *Service {
	return &Service{
		schedule: schedule,
		window:   window,
		logger:   logger,
	}
}

// Run executes the pipeline over one batch and returns all result tables.
func (s *Service) Run(in Input) *Result {
	runID := uuid.New()
	log := s.logger.With(zap.String("run_id", runID.String()))
	log.Info("reconciliation started",
		zap.Int("customers", len(in.Customers)),
		zap.Int("orders", len(in.Orders)),
		zap.Strings("tiers", s.schedule.Names()),
	)

	filtered := s.window.FilterOrders(in.Orders)
	sorted := sortOrders(filtered)

	result := &Result{
		RunID:          runID,
		FilteredOrders: filtered,
		SortedOrders:   sorted,
		SpendQualified: s.spendQualified(in.Customers, sorted),
		CurrentTier:    s.currentTier(in.Customers),
	}
	result.NewTier = s.reclassify(in.Customers, sorted)
	result.Segments = s.segment(result.NewTier)
	result.Changed = s.changed(in.Customers, sorted, result.CurrentTier, result.NewTier)

	log.Info("reconciliation complete",
		zap.Int("filtered_orders", len(result.FilteredOrders)),
		zap.Int("spend_qualified", len(result.SpendQualified)),
		zap.Int("current_tier", len(result.CurrentTier)),
		zap.Int("new_tier", len(result.NewTier)),
		zap.Int("changed", len(result.Changed)),
	)
	return result
}

// sortOrders stable-sorts a copy of the orders by (email, phone) ascending.
// Grouping is for deterministic output only; aggregation does not depend
// on it.
func sortOrders(orders []tiering.Order) []tiering.Order {
	sorted := make([]tiering.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Email != sorted[j].Email {
			return sorted[i].Email < sorted[j].Email
		}
		return sorted[i].Phone < sorted[j].Phone
	})
	return sorted
}

// spendQualified selects customers whose historical totals reach the lowest
// tier threshold and who have placed at least one order, attaching each
// one's net spend inside the window. A record with non-zero spend but zero
// orders is a data anomaly and stays excluded.
func (s *Service) spendQualified(customers []tiering.Customer, orders []tiering.Order) []tiering.Customer {
	min := s.schedule.MinimumThreshold()
	var qualified []tiering.Customer
	for _, c := range customers {
		if c.TotalOrders <= 0 {
			continue
		}
		if c.TotalSpent.Amount().LessThan(min) {
			continue
		}
		net := tiering.NetSpend(tiering.MatchOrders(c, orders))
		qualified = append(qualified, c.WithNetSpend(net))
	}
	return qualified
}

// currentTier selects customers whose tag list already carries a tier name,
// as loaded, before any reclassification
func (s *Service) currentTier(customers []tiering.Customer) []tiering.Customer {
	var current []tiering.Customer
	for _, c := range customers {
		if s.schedule.HasTierTag(c.Tags) {
			current = append(current, c)
		}
	}
	return current
}

// reclassify recomputes every customer's net spend, classifies it, and
// merges the tier tag into a derived copy, then keeps the customers that
// hold a tier afterwards.
func (s *Service) reclassify(customers []tiering.Customer, orders []tiering.Order) []tiering.Customer {
	var newTier []tiering.Customer
	for _, c := range customers {
		net := tiering.NetSpend(tiering.MatchOrders(c, orders))
		derived := c.WithTags(s.schedule.MergeTags(c.Tags, net)).WithNetSpend(net)
		if s.schedule.HasTierTag(derived.Tags) {
			newTier = append(newTier, derived)
		}
	}
	return newTier
}

// segment splits the newly classified customers into one table per tier,
// in tier declaration order
func (s *Service) segment(newTier []tiering.Customer) []Segment {
	names := s.schedule.Names()
	segments := make([]Segment, 0, len(names))
	for _, name := range names {
		seg := Segment{Tier: name}
		for _, c := range newTier {
			if c.Tags.Contains(name) {
				seg.Customers = append(seg.Customers, c)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// changed collects the customers whose tier membership moved: anyone present
// in the current-tier or new-tier view, carrying the reclassified tag list
// when one exists and a tier-stripped list otherwise, with net spend in
// range attached.
func (s *Service) changed(customers []tiering.Customer, orders []tiering.Order, current, newTier []tiering.Customer) []tiering.Customer {
	var changed []tiering.Customer
	for _, c := range customers {
		reclassified, inNew := findCustomer(newTier, c)
		if !inNew {
			if _, inCurrent := findCustomer(current, c); !inCurrent {
				continue
			}
		}
		net := tiering.NetSpend(tiering.MatchOrders(c, orders))
		derived := c.WithNetSpend(net)
		if inNew {
			derived = derived.WithTags(reclassified.Tags)
		} else {
			derived = derived.WithTags(s.schedule.StripTiers(c.Tags))
		}
		changed = append(changed, derived)
	}
	return changed
}

// findCustomer locates a record for the same customer by identity
func findCustomer(customers []tiering.Customer, target tiering.Customer) (tiering.Customer, bool) {
	for _, c := range customers {
		if c.SameCustomer(target) {
			return c, true
		}
	}
	return tiering.Customer{}, false
}
