package txstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kraxel/txquery/pkg/db"
	"github.com/kraxel/txquery/pkg/db/postgres"
)

const sqlstateQueryCanceled = "57014"

// translate maps a driver error onto the db sentinels. The driver error text is
// kept for logs but is not part of the unwrap chain.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if db.IsStoreError(err) {
		return err
	}

	var scanErr pgx.ScanArgError
	code := postgres.PgErrorCode(err)

	switch {
	case postgres.IsNoRows(err):
		return fmt.Errorf("%s: %w", op, db.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err), code == sqlstateQueryCanceled:
		return fmt.Errorf("%s: %w: %v", op, db.ErrTimeout, err)
	case errors.As(err, &scanErr), errors.Is(err, pgx.ErrTooManyRows):
		return fmt.Errorf("%s: %w: %v", op, db.ErrInternal, err)
	case code == "":
		// Connect failures, closed pool, broken sockets, caller cancellation.
		return fmt.Errorf("%s: %w: %v", op, db.ErrUnavailable, err)
	case unavailableClass(code):
		return fmt.Errorf("%s: %w: %v", op, db.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, db.ErrInternal, err)
	}
}

// unavailableClass covers connection exceptions (08), insufficient resources (53)
// and operator intervention (57P*).
func unavailableClass(code string) bool {
	return strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57P")
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", db.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
