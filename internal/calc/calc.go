package calc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/catalog"
)

var (
	ErrInvalidExpression = errors.New("invalid formula expression")
	ErrMissingField      = errors.New("missing application field")
	ErrInvalidField      = errors.New("application field is not a number")
	ErrNegativeAmount    = errors.New("calculated amount is negative")
	ErrUnknownKind       = errors.New("unknown formula kind")
)

// Breakdown component names.
const (
	ComponentBaseFee          = "base_fee"
	ComponentExpressionCharge = "expression_charge"
	ComponentZonePremium      = "zone_premium"
	ComponentZoneDiscount     = "zone_discount"
)

// Fields is the application data a formula reads, keyed by field name.
type Fields map[string]string

// NewFields flattens decoded JSON application data into Fields.
func NewFields(data map[string]any) Fields {
	fields := make(Fields, len(data))

	for k, v := range data {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			fields[k] = fmt.Sprint(val)
		}
	}

	return fields
}

// Number parses the named field. ok is false when the field is absent or blank.
func (f Fields) Number(name string) (decimal.Decimal, bool, error) {
	raw, present := f[name]
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))

	if !present || raw == "" {
		return decimal.Zero, false, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %s=%q", ErrInvalidField, name, f[name])
	}

	return d, true, nil
}

// ValidationError lists required fields the application did not supply.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrMissingField }

type Input struct {
	RevenueTypeCode string
	ZoneID          string
	Fields          Fields
	AsOf            time.Time
}

type Component struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Descriptor identifies the formula version that produced a result.
type Descriptor struct {
	ID            uuid.UUID    `json:"id"`
	Kind          catalog.Kind `json:"kind"`
	Description   string       `json:"description"`
	EffectiveFrom time.Time    `json:"effective_from"`
	ZoneID        *string      `json:"zone_id,omitempty"`
}

// Result is the outcome of a calculation. Breakdown always sums to Amount.
type Result struct {
	Amount          int64            `json:"amount"`
	Breakdown       []Component      `json:"breakdown"`
	Formula         Descriptor       `json:"formula"`
	RawAmount       int64            `json:"raw_amount"`
	Multiplier      *decimal.Decimal `json:"zone_multiplier,omitempty"`
	RevenueTypeCode string           `json:"revenue_type_code"`
	ZoneID          string           `json:"zone_id,omitempty"`
	AsOf            time.Time        `json:"as_of"`
	// RenewalDays is set for recurring revenue types.
	RenewalDays     int              `json:"renewal_days,omitempty"`
}

// Sum adds up the breakdown.
func (r *Result) Sum() int64 {
	var total int64
	for _, c := range r.Breakdown {
		total += c.Amount
	}

	return total
}

// roundHalfUp rounds a non-negative amount to whole currency units.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func missingFields(required []string, fields Fields) []string {
	var missing []string

	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}

	sort.Strings(missing)

	return missing
}
