package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"pharmafind/internal/geo"
	"pharmafind/internal/models"
	"pharmafind/internal/repositories"

	"go.uber.org/zap"
)

const (
	DefaultRadiusKm      = 100.0
	DefaultPharmacyLimit = 50
	MaxPharmacyLimit     = 200
)

type AvailabilityOptions struct {
	DefaultRadiusKm float64
	DefaultLimit    int
	MaxLimit        int
	// GeoPushdown lets Postgres drop far-away pharmacies before rows are read.
	GeoPushdown bool
}

func DefaultAvailabilityOptions() AvailabilityOptions {
	return AvailabilityOptions{
		DefaultRadiusKm: DefaultRadiusKm,
		DefaultLimit:    DefaultPharmacyLimit,
		MaxLimit:        MaxPharmacyLimit,
	}
}

// AvailabilityService ranks the pharmacies that stock a set of packages.
type AvailabilityService interface {
	SearchPharmacies(ctx context.Context, filter *models.PharmacySearchFilter) ([]*models.PharmacyResult, error)
}

type availabilityService struct {
	inventoryRepo repositories.InventoryRepository
	pharmacyRepo  repositories.PharmacyRepository
	opts          AvailabilityOptions
	logger        *zap.Logger
}

func NewAvailabilityService(inventoryRepo repositories.InventoryRepository, pharmacyRepo repositories.PharmacyRepository, opts AvailabilityOptions, logger *zap.Logger) AvailabilityService {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = DefaultRadiusKm
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxPharmacyLimit
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(DefaultPharmacyLimit, opts.MaxLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &availabilityService{
		inventoryRepo: inventoryRepo,
		pharmacyRepo:  pharmacyRepo,
		opts:          opts,
		logger:        logger,
	}
}

// pharmacyAggregate accumulates everything known about one pharmacy while
// folding inventory rows.
type pharmacyAggregate struct {
	pharmacy   *models.Pharmacy
	minPrice   *int64
	packages   map[string]struct{}
	rows       []*models.InventoryRow
	distanceKm *float64
}

func (a *pharmacyAggregate) add(row *models.InventoryRow) {
	a.rows = append(a.rows, row)
	a.packages[row.PackageID] = struct{}{}
	if row.PriceCents != nil && (a.minPrice == nil || *row.PriceCents < *a.minPrice) {
		p := *row.PriceCents
		a.minPrice = &p
	}
}

// searchPlan is a filter with every default applied.
type searchPlan struct {
	packageIDs  []string
	order       map[string]int
	origin      *geo.Point
	radiusKm    float64
	mustHaveAll bool
	sortBy      string
	limit       int
}

// plan normalises the filter. It returns false when the filter can only
// produce an empty result.
func (s *availabilityService) plan(filter *models.PharmacySearchFilter) (*searchPlan, bool) {
	if filter == nil {
		return nil, false
	}
	p := &searchPlan{
		packageIDs:  normalizeIDs(filter.PackageIDs),
		mustHaveAll: filter.MustHaveAll,
		sortBy:      filter.SortBy,
		limit:       filter.Limit,
	}
	if len(p.packageIDs) == 0 {
		return nil, false
	}
	p.order = make(map[string]int, len(p.packageIDs))
	for i, id := range p.packageIDs {
		p.order[id] = i
	}

	if filter.HasOrigin() {
		origin := geo.Point{Lat: *filter.Lat, Lng: *filter.Lng}
		if math.IsNaN(origin.Lat) || math.IsNaN(origin.Lng) || !origin.Valid() {
			return nil, false
		}
		p.origin = &origin
		p.radiusKm = s.opts.DefaultRadiusKm
		if filter.RadiusKm != nil {
			p.radiusKm = *filter.RadiusKm
		}
		if math.IsNaN(p.radiusKm) || p.radiusKm <= 0 {
			return nil, false
		}
	}

	switch p.sortBy {
	case models.SortByPrice, models.SortByName, models.SortByDistance:
	default:
		p.sortBy = models.SortByDistance
	}
	if p.limit <= 0 {
		p.limit = s.opts.DefaultLimit
	}
	if p.limit > s.opts.MaxLimit {
		p.limit = s.opts.MaxLimit
	}
	return p, true
}

func (s *availabilityService) SearchPharmacies(ctx context.Context, filter *models.PharmacySearchFilter) ([]*models.PharmacyResult, error) {
	plan, ok := s.plan(filter)
	if !ok {
		return []*models.PharmacyResult{}, nil
	}

	query := repositories.InventoryQuery{PackageIDs: plan.packageIDs, MinStock: 1}
	if plan.origin != nil && s.opts.GeoPushdown {
		query.Near = &repositories.GeoBound{Origin: *plan.origin, RadiusKm: plan.radiusKm}
	}
	rows, err := s.inventoryRepo.FindInStock(ctx, query)
	if err != nil {
		return nil, upstream("find inventory", err)
	}

	aggregates, err := s.fold(ctx, plan, rows)
	if err != nil {
		return nil, err
	}

	candidates := make([]*pharmacyAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if plan.origin != nil {
			agg.distanceKm = geo.DistanceFrom(*plan.origin, agg.pharmacy.Lat, agg.pharmacy.Lng)
			if agg.distanceKm == nil || *agg.distanceKm > plan.radiusKm {
				continue
			}
		}
		if plan.mustHaveAll && len(agg.packages) < len(plan.packageIDs) {
			continue
		}
		candidates = append(candidates, agg)
	}

	rankAggregates(candidates, plan.sortBy, plan.origin != nil)
	if len(candidates) > plan.limit {
		candidates = candidates[:plan.limit]
	}

	results := make([]*models.PharmacyResult, 0, len(candidates))
	for _, agg := range candidates {
		results = append(results, assembleResult(agg, plan))
	}

	s.logger.Debug("Pharmacy search",
		zap.Int("packages", len(plan.packageIDs)),
		zap.Int("rows", len(rows)),
		zap.Int("pharmacies", len(aggregates)),
		zap.Int("results", len(results)),
		zap.String("sort_by", plan.sortBy))

	return results, nil
}

// fold groups in-stock rows for the requested packages by pharmacy. Rows for
// pharmacies that can no longer be loaded are dropped.
func (s *availabilityService) fold(ctx context.Context, plan *searchPlan, rows []*models.InventoryRow) (map[string]*pharmacyAggregate, error) {
	aggregates := make(map[string]*pharmacyAggregate)
	var pharmacyIDs []string
	for _, row := range rows {
		if row == nil || !row.InStock() {
			continue
		}
		if _, requested := plan.order[row.PackageID]; !requested {
			continue
		}
		agg, ok := aggregates[row.PharmacyID]
		if !ok {
			agg = &pharmacyAggregate{packages: make(map[string]struct{})}
			aggregates[row.PharmacyID] = agg
			pharmacyIDs = append(pharmacyIDs, row.PharmacyID)
		}
		agg.add(row)
	}
	if len(aggregates) == 0 {
		return aggregates, nil
	}

	sort.Strings(pharmacyIDs)
	pharmacies, err := s.pharmacyRepo.GetByIDs(ctx, pharmacyIDs)
	if err != nil {
		return nil, upstream("load pharmacies", err)
	}
	for _, ph := range pharmacies {
		if agg, ok := aggregates[ph.ID]; ok {
			agg.pharmacy = ph
		}
	}
	for id, agg := range aggregates {
		if agg.pharmacy == nil {
			s.logger.Warn("Inventory references unknown pharmacy", zap.String("pharmacy_id", id))
			delete(aggregates, id)
		}
	}
	return aggregates, nil
}

// rankAggregates orders pharmacies for the requested sort. Ties always fall
// back to pharmacy id so repeated searches return the same order.
func rankAggregates(aggs []*pharmacyAggregate, sortBy string, hasOrigin bool) {
	byName := func(a, b *pharmacyAggregate) int {
		return strings.Compare(a.pharmacy.Name, b.pharmacy.Name)
	}
	var primary func(a, b *pharmacyAggregate) int
	switch {
	case sortBy == models.SortByPrice:
		primary = func(a, b *pharmacyAggregate) int { return compareNullsLast(a.minPrice, b.minPrice) }
	case sortBy == models.SortByName:
		primary = byName
	case hasOrigin:
		primary = func(a, b *pharmacyAggregate) int { return compareNullsLast(a.distanceKm, b.distanceKm) }
	default:
		primary = byName
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		if c := primary(aggs[i], aggs[j]); c != 0 {
			return c < 0
		}
		return aggs[i].pharmacy.ID < aggs[j].pharmacy.ID
	})
}

func compareNullsLast[T int64 | float64](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func assembleResult(agg *pharmacyAggregate, plan *searchPlan) *models.PharmacyResult {
	ph := agg.pharmacy
	lines := make([]*models.PharmacyPackageLine, 0, len(agg.rows))
	sort.SliceStable(agg.rows, func(i, j int) bool {
		a, b := agg.rows[i], agg.rows[j]
		if oa, ob := plan.order[a.PackageID], plan.order[b.PackageID]; oa != ob {
			return oa < ob
		}
		return compareNullsLast(a.PriceCents, b.PriceCents) < 0
	})
	for _, row := range agg.rows {
		lines = append(lines, &models.PharmacyPackageLine{
			PackageID:     row.PackageID,
			BrandName:     row.BrandName,
			PriceCents:    row.PriceCents,
			Currency:      row.Currency,
			StockQuantity: *row.StockQuantity,
			LastUpdated:   row.LastUpdated,
		})
	}

	return &models.PharmacyResult{
		PharmacyID:    ph.ID,
		PharmacyName:  ph.Name,
		Address:       ph.Address,
		City:          ph.City,
		Country:       ph.Country,
		Lat:           ph.Lat,
		Lng:           ph.Lng,
		Phone:         ph.Phone,
		OpeningHours:  ph.OpeningHours,
		DistanceKm:    agg.distanceKm,
		MinPriceCents: agg.minPrice,
		Packages:      lines,
	}
}

// normalizeIDs trims ids, drops blanks and duplicates, and keeps first-seen order.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
