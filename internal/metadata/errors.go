package metadata

import (
	"errors"
	"fmt"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// Sentinel errors wrapped by MetadataQueryError.
var (
	// ErrTableNotFound is returned when a table reports no columns.
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when a column lookup misses.
	ErrColumnNotFound = errors.New("column not found")
)

// UnsupportedDialectError is returned when no adapter exists for a dialect.
type UnsupportedDialectError struct {
	Dialect schema.Dialect
}

// Error returns the error string.
func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported database dialect: %q", e.Dialect)
}

// IsUnsupportedDialect returns true if the error is an UnsupportedDialectError.
func IsUnsupportedDialect(err error) bool {
	var e *UnsupportedDialectError
	return errors.As(err, &e)
}

// MetadataQueryError wraps a failed metadata query.
type MetadataQueryError struct {
	Op    string
	Table string
	Err   error
}

// Error returns the error string.
func (e *MetadataQueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s for table %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying query error.
func (e *MetadataQueryError) Unwrap() error {
	return e.Err
}

// IsMetadataQuery returns true if the error is a MetadataQueryError.
func IsMetadataQuery(err error) bool {
	var e *MetadataQueryError
	return errors.As(err, &e)
}

func queryError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &MetadataQueryError{Op: op, Table: table, Err: err}
}
