package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/levy/internal/render"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats a whole-Naira amount.
func FormatAmount(naira int64) string {
	return render.FormatNaira(naira)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
