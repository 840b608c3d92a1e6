package engine

import (
	"fmt"

	apperrors "github.com/classplan/timetable/pkg/errors"
)

// Status is reused as the process exit code a CLI front-end should return.
var (
	// ErrSchema classifies a malformed or missing required field on an
	// input row. Exit code 3.
	ErrSchema = apperrors.New("SCHEMA_ERROR", 3, "invalid input row")
	// ErrSolver classifies a failure of the solver call itself (not a
	// proof of infeasibility). Exit code 4.
	ErrSolver = apperrors.New("SOLVER_ERROR", 4, "solver failed")
	// ErrInvariant classifies a post-hoc constraint check failing on an
	// extracted solution — a bug in the model or extractor, not a user
	// error. Exit code 1.
	ErrInvariant = apperrors.New("INVARIANT_VIOLATION", 1, "post-hoc invariant check failed")
)

func schemaError(rowIndex int, field, reason string) *apperrors.Error {
	return apperrors.Clone(ErrSchema, fmt.Sprintf("row %d: field %q %s", rowIndex, field, reason))
}

func invariantError(message string) *apperrors.Error {
	return apperrors.Clone(ErrInvariant, message)
}
