package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/levy/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (actor, action, table_name, record_id, old_data, new_data, outcome, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Actor,
		e.Action,
		e.TableName,
		e.RecordID,
		nullJSON(e.OldData),
		nullJSON(e.NewData),
		e.Outcome,
		e.Error,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error) {
	query := `
		SELECT id, actor, action, table_name, record_id, old_data, new_data, outcome, error, created_at
		FROM audit_log
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.TableName != "" {
		query += fmt.Sprintf(" AND table_name = $%d", argIdx)

		args = append(args, filter.TableName)
		argIdx++
	}

	if filter.RecordID != "" {
		query += fmt.Sprintf(" AND record_id = $%d", argIdx)

		args = append(args, filter.RecordID)
		argIdx++
	}

	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)

		args = append(args, filter.Action)
		argIdx++
	}

	if filter.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.Since)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var (
			e                audit.Entry
			oldData, newData []byte
			outcome          string
		)

		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.TableName, &e.RecordID,
			&oldData, &newData, &outcome, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.OldData = oldData
		e.NewData = newData
		e.Outcome = audit.Outcome(outcome)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}

	return string(b)
}
