package canopy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThresholds is returned when the resolved T1 radius is smaller
	// than the resolved T2 radius.
	ErrInvalidThresholds = errors.New("canopy: T1 can't be less than T2")

	// ErrBlockMismatch is returned when two memberships of different block
	// length are compared.
	ErrBlockMismatch = errors.New("canopy: canopy lists need to be the same length")

	// ErrNoCanopies is returned by queries on a clusterer that holds no canopies.
	ErrNoCanopies = errors.New("canopy: no canopies")

	// ErrFinalized is returned by Update once Finalize has produced canopies.
	ErrFinalized = errors.New("canopy: clusterer already finalized")

	// ErrSchemaMismatch is returned when a record does not match the schema width.
	ErrSchemaMismatch = errors.New("canopy: record does not match schema")

	// ErrUnknownCategory is returned for categorical values outside the domain.
	ErrUnknownCategory = errors.New("canopy: unknown category")
)

// ThresholdError reports the resolved radii that violated T2 <= T1.
type ThresholdError struct {
	T1 float64
	T2 float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("canopy: T1 can't be less than T2. Computed T2 as %v, T1 is requested to be %v", e.T2, e.T1)
}

func (e *ThresholdError) Unwrap() error { return ErrInvalidThresholds }

// BlockMismatchError reports the block lengths of two incompatible memberships.
type BlockMismatchError struct {
	First  int
	Second int
}

func (e *BlockMismatchError) Error() string {
	return fmt.Sprintf("canopy: canopy lists need to be the same length: %d != %d blocks", e.First, e.Second)
}

func (e *BlockMismatchError) Unwrap() error { return ErrBlockMismatch }

// SchemaMismatchError reports a record whose width differs from the schema.
type SchemaMismatchError struct {
	Expected int
	Actual   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("canopy: record has %d attributes, schema has %d", e.Actual, e.Expected)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }
