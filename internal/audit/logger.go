package audit

import (
	"context"
	"fmt"
	"log/slog"
)

//go:generate mockgen -source=logger.go -destination=repository_mock.go -package=audit
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, error)
}

type Logger struct {
	repo Repository
}

func NewLogger(repo Repository) *Logger {
	return &Logger{repo: repo}
}

// Record appends e. A failed write is logged and swallowed so it never undoes
// the mutation being described; the caller's cancellation is ignored for the same reason.
func (l *Logger) Record(ctx context.Context, e Entry) {
	if e.Actor == "" {
		e.Actor = SystemActor
	}

	if err := l.repo.Append(context.WithoutCancel(ctx), &e); err != nil {
		slog.Warn("failed to write audit entry",
			"action", e.Action,
			"table", e.TableName,
			"record_id", e.RecordID,
			"error", err,
		)
	}
}

func (l *Logger) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	entries, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}

	return entries, nil
}
