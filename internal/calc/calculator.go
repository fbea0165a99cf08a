package calc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/catalog"
)

//go:generate mockgen -source=calculator.go -destination=catalog_mock.go -package=calc
type Catalog interface {
	RevenueType(ctx context.Context, code string) (*catalog.RevenueType, error)
	Zone(ctx context.Context, id string) (*catalog.Zone, error)
	Resolve(ctx context.Context, revenueTypeCode, zoneID string, asOf time.Time) (*catalog.Formula, error)
}

// Calculator turns application data into an assessed amount with an itemised
// breakdown. It holds no mutable state besides a cache of compiled
// expressions, so it is safe for concurrent use.
type Calculator struct {
	catalog  Catalog
	compiled sync.Map // formula ID -> *Expression
}

func NewCalculator(c Catalog) *Calculator {
	return &Calculator{catalog: c}
}

func (c *Calculator) Calculate(ctx context.Context, in Input) (*Result, error) {
	rt, err := c.catalog.RevenueType(ctx, in.RevenueTypeCode)
	if err != nil {
		return nil, fmt.Errorf("loading revenue type: %w", err)
	}

	f, err := c.catalog.Resolve(ctx, rt.Code, in.ZoneID, in.AsOf)
	if err != nil {
		return nil, fmt.Errorf("resolving formula for %s: %w", rt.Code, err)
	}

	if missing := missingFields(f.RequiredFields, in.Fields); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	var multiplier *decimal.Decimal

	if rt.HasZones && in.ZoneID != "" {
		zone, err := c.catalog.Zone(ctx, in.ZoneID)
		if err != nil {
			return nil, fmt.Errorf("loading zone: %w", err)
		}

		multiplier = &zone.Multiplier
	}

	components, zoneApplied, err := c.evaluate(f, in.Fields, multiplier)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Breakdown: components,
		Formula: Descriptor{
			ID:            f.ID,
			Kind:          f.Kind,
			Description:   f.Description,
			EffectiveFrom: f.EffectiveFrom,
			ZoneID:        f.ZoneID,
		},
		Multiplier:      multiplier,
		RevenueTypeCode: rt.Code,
		ZoneID:          in.ZoneID,
		AsOf:            in.AsOf,
	}
	res.RawAmount = res.Sum()

	if rt.IsRecurring {
		res.RenewalDays = rt.RenewalDays
	}

	if res.RawAmount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, res.RawAmount)
	}

	res.Amount = res.RawAmount

	if multiplier != nil && !zoneApplied {
		res.Amount = roundHalfUp(decimal.NewFromInt(res.RawAmount).Mul(*multiplier))

		switch diff := res.Amount - res.RawAmount; {
		case diff > 0:
			res.Breakdown = append(res.Breakdown, Component{Name: ComponentZonePremium, Amount: diff})
		case diff < 0:
			res.Breakdown = append(res.Breakdown, Component{Name: ComponentZoneDiscount, Amount: diff})
		}
	}

	return res, nil
}

// evaluate produces the pre-zone components. zoneApplied reports whether the
// formula already folded the zone multiplier in itself.
func (c *Calculator) evaluate(f *catalog.Formula, fields Fields, multiplier *decimal.Decimal) ([]Component, bool, error) {
	switch f.Kind {
	case catalog.KindFlat:
		return []Component{{Name: ComponentBaseFee, Amount: f.BaseAmount}}, false, nil

	case catalog.KindRateTable:
		components := []Component{{Name: ComponentBaseFee, Amount: f.BaseAmount}}

		for _, entry := range f.RateTable {
			amount, matched, err := rateCharge(entry, fields)
			if err != nil {
				return nil, false, err
			}

			if matched && amount != 0 {
				components = addComponent(components, entry.Name, amount)
			}
		}

		return components, false, nil

	case catalog.KindExpression:
		return c.evaluateExpression(f, fields, multiplier)
	}

	return nil, false, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
}

func (c *Calculator) evaluateExpression(f *catalog.Formula, fields Fields, multiplier *decimal.Decimal) ([]Component, bool, error) {
	expr, err := c.expression(f.ID, f.Expression)
	if err != nil {
		return nil, false, err
	}

	vars := map[string]decimal.Decimal{
		VarBase:           decimal.NewFromInt(f.BaseAmount),
		VarZoneMultiplier: decimal.NewFromInt(1),
	}
	if multiplier != nil {
		vars[VarZoneMultiplier] = *multiplier
	}

	for _, name := range expr.Vars() {
		if name == VarBase || name == VarZoneMultiplier {
			continue
		}

		v, ok, err := fields.Number(name)
		if err != nil {
			return nil, false, err
		}

		if ok {
			vars[name] = v
		}
	}

	total, err := expr.Evaluate(vars)
	if err != nil {
		return nil, false, err
	}

	amount := roundHalfUp(total)
	zoneApplied := multiplier != nil && expr.Uses(VarZoneMultiplier)

	if !expr.Uses(VarBase) {
		return []Component{{Name: ComponentExpressionCharge, Amount: amount}}, zoneApplied, nil
	}

	components := []Component{{Name: ComponentBaseFee, Amount: f.BaseAmount}}
	if charge := amount - f.BaseAmount; charge != 0 {
		components = append(components, Component{Name: ComponentExpressionCharge, Amount: charge})
	}

	return components, zoneApplied, nil
}

func (c *Calculator) expression(id uuid.UUID, source string) (*Expression, error) {
	if cached, ok := c.compiled.Load(id); ok {
		return cached.(*Expression), nil
	}

	expr, err := Compile(source)
	if err != nil {
		return nil, err
	}

	c.compiled.Store(id, expr)

	return expr, nil
}
