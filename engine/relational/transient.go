package relational

import (
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/lib/pq"
)

// Transient reports whether a store error is worth one retry: connection
// churn and server restarts, not query or constraint errors.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions. Class 57: operator intervention
		// (shutdown, crash recovery).
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}
	return false
}
