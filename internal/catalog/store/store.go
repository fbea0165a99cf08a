package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/catalog"
)

type Store struct {
	db      *sql.DB
	typeMap *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, typeMap: pgtype.NewMap()}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectRevenueTypeColumns = `code, name, category, base_amount, has_zones, is_recurring, renewal_days`

func scanRevenueType(s scanner) (*catalog.RevenueType, error) {
	var rt catalog.RevenueType
	if err := s.Scan(&rt.Code, &rt.Name, &rt.Category, &rt.BaseAmount, &rt.HasZones, &rt.IsRecurring, &rt.RenewalDays); err != nil {
		return nil, err
	}

	return &rt, nil
}

func (s *Store) GetRevenueType(ctx context.Context, code string) (*catalog.RevenueType, error) {
	query := `SELECT ` + selectRevenueTypeColumns + ` FROM revenue_types WHERE code = $1`

	rt, err := scanRevenueType(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrRevenueTypeNotFound
		}

		return nil, fmt.Errorf("getting revenue type: %w", err)
	}

	return rt, nil
}

func (s *Store) ListRevenueTypes(ctx context.Context) ([]*catalog.RevenueType, error) {
	query := `SELECT ` + selectRevenueTypeColumns + ` FROM revenue_types ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing revenue types: %w", err)
	}
	defer rows.Close()

	var types []*catalog.RevenueType

	for rows.Next() {
		rt, err := scanRevenueType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning revenue type: %w", err)
		}

		types = append(types, rt)
	}

	return types, rows.Err()
}

func scanZone(s scanner) (*catalog.Zone, error) {
	var (
		z          catalog.Zone
		multiplier string
	)

	if err := s.Scan(&z.ID, &z.Name, &multiplier, &z.Description); err != nil {
		return nil, err
	}

	m, err := decimal.NewFromString(multiplier)
	if err != nil {
		return nil, fmt.Errorf("parsing multiplier %q: %w", multiplier, err)
	}

	z.Multiplier = m

	return &z, nil
}

func (s *Store) GetZone(ctx context.Context, id string) (*catalog.Zone, error) {
	query := `SELECT id, name, multiplier::text, description FROM zones WHERE id = $1`

	z, err := scanZone(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrZoneNotFound
		}

		return nil, fmt.Errorf("getting zone: %w", err)
	}

	return z, nil
}

func (s *Store) ListZones(ctx context.Context) ([]*catalog.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, multiplier::text, description FROM zones ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []*catalog.Zone

	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}

		zones = append(zones, z)
	}

	return zones, rows.Err()
}

func (s *Store) ListActiveFormulas(ctx context.Context, revenueTypeCode string) ([]*catalog.Formula, error) {
	query := `
		SELECT id, revenue_type_code, zone_id, kind, base_amount, rate_table, expression,
		       required_fields, description, effective_from, is_active
		FROM assessment_formulas
		WHERE revenue_type_code = $1 AND is_active
		ORDER BY effective_from DESC
	`

	rows, err := s.db.QueryContext(ctx, query, revenueTypeCode)
	if err != nil {
		return nil, fmt.Errorf("listing formulas: %w", err)
	}
	defer rows.Close()

	var formulas []*catalog.Formula

	for rows.Next() {
		var (
			f         catalog.Formula
			zoneID    sql.NullString
			kind      string
			rateTable []byte
			required  []string
		)

		if err := rows.Scan(
			&f.ID, &f.RevenueTypeCode, &zoneID, &kind, &f.BaseAmount, &rateTable, &f.Expression,
			s.typeMap.SQLScanner(&required), &f.Description, &f.EffectiveFrom, &f.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scanning formula: %w", err)
		}

		f.Kind = catalog.Kind(kind)
		f.RequiredFields = required

		if zoneID.Valid {
			f.ZoneID = &zoneID.String
		}

		if len(rateTable) > 0 {
			if err := json.Unmarshal(rateTable, &f.RateTable); err != nil {
				return nil, fmt.Errorf("decoding rate table of formula %s: %w", f.ID, err)
			}
		}

		formulas = append(formulas, &f)
	}

	return formulas, rows.Err()
}
