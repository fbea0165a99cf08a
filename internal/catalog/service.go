package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/levy/internal/cache"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	GetRevenueType(ctx context.Context, code string) (*RevenueType, error)
	ListRevenueTypes(ctx context.Context) ([]*RevenueType, error)
	GetZone(ctx context.Context, id string) (*Zone, error)
	ListZones(ctx context.Context) ([]*Zone, error)
	// ListActiveFormulas returns every active formula version for the revenue type,
	// regardless of effective date.
	ListActiveFormulas(ctx context.Context, revenueTypeCode string) ([]*Formula, error)
}

type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) RevenueType(ctx context.Context, code string) (*RevenueType, error) {
	return cache.Fetch(ctx, s.cache, "revenue_type:"+code, func(ctx context.Context) (*RevenueType, error) {
		return s.repo.GetRevenueType(ctx, code)
	})
}

func (s *Service) ListRevenueTypes(ctx context.Context) ([]*RevenueType, error) {
	return cache.Fetch(ctx, s.cache, "revenue_types", s.repo.ListRevenueTypes)
}

func (s *Service) Zone(ctx context.Context, id string) (*Zone, error) {
	return cache.Fetch(ctx, s.cache, "zone:"+id, func(ctx context.Context) (*Zone, error) {
		return s.repo.GetZone(ctx, id)
	})
}

func (s *Service) ListZones(ctx context.Context) ([]*Zone, error) {
	return cache.Fetch(ctx, s.cache, "zones", s.repo.ListZones)
}

// Resolve picks the formula that governs revenueTypeCode in zoneID at asOf.
// A formula for the exact zone beats a zone-agnostic one; within each tier the
// latest effective_from not after asOf wins.
func (s *Service) Resolve(ctx context.Context, revenueTypeCode, zoneID string, asOf time.Time) (*Formula, error) {
	formulas, err := cache.Fetch(ctx, s.cache, "formulas:"+revenueTypeCode, func(ctx context.Context) ([]*Formula, error) {
		return s.repo.ListActiveFormulas(ctx, revenueTypeCode)
	})
	if err != nil {
		return nil, fmt.Errorf("listing formulas: %w", err)
	}

	return selectFormula(formulas, zoneID, asOf)
}

func selectFormula(formulas []*Formula, zoneID string, asOf time.Time) (*Formula, error) {
	var zoned, general *Formula

	for _, f := range formulas {
		if !f.IsActive || f.EffectiveFrom.After(asOf) {
			continue
		}

		slot := &general

		if f.zoneSpecific() {
			if zoneID == "" || *f.ZoneID != zoneID {
				continue
			}

			slot = &zoned
		}

		current := *slot
		switch {
		case current == nil || f.EffectiveFrom.After(current.EffectiveFrom):
			*slot = f
		case f.EffectiveFrom.Equal(current.EffectiveFrom):
			return nil, fmt.Errorf("%w: %s and %s", ErrAmbiguousFormula, current.ID, f.ID)
		}
	}

	if zoned != nil {
		return zoned, nil
	}

	if general != nil {
		return general, nil
	}

	return nil, ErrFormulaNotFound
}
