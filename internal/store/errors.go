package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"finmatch-backend/internal/common"
)

const (
	uniqueViolation           = "23505"
	stringDataRightTruncation = "22001"
)

// classify maps a driver error onto the store's error taxonomy. Unique
// violations become ErrConflict and values too long for their column become
// ErrValidation. Other integrity and data errors become ErrPermanentStore.
// Everything else (connectivity, timeouts, pool exhaustion, server shutdown)
// becomes ErrTransientStore.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolation:
			return fmt.Errorf("%s: %w", op, common.ErrConflict)
		case pgErr.Code == stringDataRightTruncation:
			return fmt.Errorf("%s: %w: %w", op, common.ErrValidation, err)
		case transientCode(pgErr.Code):
			return fmt.Errorf("%s: %w: %w", op, common.ErrTransientStore, err)
		default:
			return fmt.Errorf("%s: %w: %w", op, common.ErrPermanentStore, err)
		}
	}

	// Without a server error there was no answer from the database: a dial
	// failure, a dropped connection, or the context expiring while waiting
	// for a pool connection.
	return fmt.Errorf("%s: %w: %w", op, common.ErrTransientStore, err)
}

// transientCode reports SQLSTATEs worth retrying: connection exceptions,
// serialization failures and deadlocks, insufficient resources, operator
// intervention and query cancellation.
func transientCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"), strings.HasPrefix(code, "57"):
		return true
	case code == "40001", code == "40P01":
		return true
	}
	return false
}
