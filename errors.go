package kvdb

import (
	"errors"

	"github.com/kvdb-io/kvdb/math32"
)

var (
	// ErrEmptyStore is returned by Delete and Search when the store has never
	// seen a successful insert, i.e. no dimension has been established.
	ErrEmptyStore = errors.New("kvdb: empty store")

	// ErrNotFound is returned when an id does not exist in the store.
	ErrNotFound = errors.New("kvdb: id not found")

	// ErrEmptyVector re-exports the normalization failure for zero-length
	// vectors so callers don't need to import math32.
	ErrEmptyVector = math32.ErrEmptyVector

	// ErrZeroVector re-exports the normalization failure for vectors with
	// zero magnitude.
	ErrZeroVector = math32.ErrZeroVector
)

// ErrDimensionMismatch indicates a vector or query whose length differs from
// the store's established dimension. Expected is the store dimension, Actual
// the offending length.
type ErrDimensionMismatch = math32.ErrDimensionMismatch
