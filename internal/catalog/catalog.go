package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRevenueTypeNotFound = errors.New("revenue type not found")
	ErrZoneNotFound        = errors.New("zone not found")
	ErrFormulaNotFound     = errors.New("no active formula for revenue type")
	ErrAmbiguousFormula    = errors.New("more than one formula active at the same instant")
)

// RevenueType is a levy, licence or fee the authority collects. Amounts are whole Naira.
type RevenueType struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	BaseAmount  int64  `json:"base_amount"`
	HasZones    bool   `json:"has_zones"`
	IsRecurring bool   `json:"is_recurring"`
	RenewalDays int    `json:"renewal_days"`
}

type Zone struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Description string          `json:"description"`
}

// Kind is the closed set of formula shapes.
type Kind string

const (
	KindFlat       Kind = "flat"
	KindRateTable  Kind = "rate_table"
	KindExpression Kind = "expression"
)

func (k Kind) Valid() bool {
	switch k {
	case KindFlat, KindRateTable, KindExpression:
		return true
	}

	return false
}

type RateKind string

const (
	// RatePerUnit charges Rate for every unit of the numeric field (rooms, square metres).
	RatePerUnit RateKind = "per_unit"
	// RateMatch charges Amount when the field equals Match (category codes).
	RateMatch RateKind = "match"
	// RateBand charges Amount when Min <= field < Max. A nil bound is open.
	RateBand RateKind = "band"
)

// RateEntry is one line of a rate table. Name becomes the breakdown component name.
type RateEntry struct {
	Kind   RateKind         `json:"kind"`
	Field  string           `json:"field"`
	Name   string           `json:"name"`
	Match  string           `json:"match,omitempty"`
	Rate   decimal.Decimal  `json:"rate,omitzero"`
	Amount int64            `json:"amount,omitempty"`
	Min    *decimal.Decimal `json:"min,omitempty"`
	Max    *decimal.Decimal `json:"max,omitempty"`
}

// Formula is one version of the calculation rule for a revenue type, optionally
// narrowed to a zone. Only the payload matching Kind is meaningful.
type Formula struct {
	ID              uuid.UUID   `json:"id"`
	RevenueTypeCode string      `json:"revenue_type_code"`
	ZoneID          *string     `json:"zone_id,omitempty"`
	Kind            Kind        `json:"kind"`
	BaseAmount      int64       `json:"base_amount"`
	RateTable       []RateEntry `json:"rate_table,omitempty"`
	Expression      string      `json:"expression,omitempty"`
	RequiredFields  []string    `json:"required_fields,omitempty"`
	Description     string      `json:"description"`
	EffectiveFrom   time.Time   `json:"effective_from"`
	IsActive        bool        `json:"is_active"`
}

func (f *Formula) zoneSpecific() bool {
	return f.ZoneID != nil && *f.ZoneID != ""
}
