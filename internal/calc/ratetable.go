package calc

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/levy/internal/catalog"
)

// rateCharge returns the charge one rate-table entry adds for fields.
// matched is false when the entry does not apply.
func rateCharge(e catalog.RateEntry, fields Fields) (amount int64, matched bool, err error) {
	switch e.Kind {
	case catalog.RatePerUnit:
		units, ok, err := fields.Number(e.Field)
		if err != nil || !ok {
			return 0, false, err
		}

		return roundHalfUp(units.Mul(e.Rate)), true, nil

	case catalog.RateMatch:
		v := strings.TrimSpace(fields[e.Field])
		if v == "" || !strings.EqualFold(v, strings.TrimSpace(e.Match)) {
			return 0, false, nil
		}

		return e.Amount, true, nil

	case catalog.RateBand:
		v, ok, err := fields.Number(e.Field)
		if err != nil || !ok {
			return 0, false, err
		}

		if e.Min != nil && v.LessThan(*e.Min) {
			return 0, false, nil
		}

		if e.Max != nil && !v.LessThan(*e.Max) {
			return 0, false, nil
		}

		return e.Amount, true, nil
	}

	return 0, false, fmt.Errorf("%w: rate entry kind %q", ErrUnknownKind, e.Kind)
}

// addComponent merges amounts that share a name so each name appears once, in first-seen order.
func addComponent(components []Component, name string, amount int64) []Component {
	for i := range components {
		if components[i].Name == name {
			components[i].Amount += amount
			return components
		}
	}

	return append(components, Component{Name: name, Amount: amount})
}
