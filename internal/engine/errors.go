package engine

import (
	"errors"
	"fmt"
)

// IntegrityCode categorizes graph integrity violations.
type IntegrityCode string

const (
	// CodeDanglingAnchor indicates a joint anchor that does not
	// resolve to a live brick.
	CodeDanglingAnchor IntegrityCode = "DANGLING_ANCHOR"

	// CodeMainGridCount indicates the world does not have exactly one
	// main grid.
	CodeMainGridCount IntegrityCode = "MAIN_GRID_COUNT"

	// CodeOrphanGrid indicates a physics grid unreachable from the
	// main grid through the joint graph.
	CodeOrphanGrid IntegrityCode = "ORPHAN_GRID"

	// CodeStaleRevisionRef indicates a reference to a revision index
	// that no longer exists.
	CodeStaleRevisionRef IntegrityCode = "STALE_REVISION_REF"
)

// GraphIntegrityError is the engine's only failure mode, raised by the
// orchestrator's post-pipeline validation. It is fatal: the caller
// must not persist the half-valid graph.
//
// The individual transformers never produce it - they are total
// functions over their inputs, and all structural violations are
// detected once, at the end of the pipeline.
type GraphIntegrityError struct {
	// Code identifies the violated invariant.
	Code IntegrityCode

	// Message is a human-readable description.
	Message string

	// RunToken identifies the pipeline run that detected the violation.
	RunToken string

	// Details contains additional context (refs, grid IDs, indices).
	Details map[string]string
}

// Error implements the error interface.
func (e *GraphIntegrityError) Error() string {
	if e.RunToken != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunToken)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsIntegrityError returns true if the error is a graph integrity
// violation. Uses errors.As to handle wrapped errors.
func IsIntegrityError(err error) bool {
	var ie *GraphIntegrityError
	return errors.As(err, &ie)
}
