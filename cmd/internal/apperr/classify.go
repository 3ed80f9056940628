package apperr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store wraps a raw driver error for op. Connectivity failures (dial errors,
// dropped connections, deadlines) are tagged with ErrUnavailable; everything
// else is returned wrapped but unclassified.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) {
		return err
	}
	if isConnectivity(err) {
		return OpError{Op: op, Kind: ErrUnavailable, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
