package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages. Callers match them with errors.Is;
// boundaries may wrap them with fmt.Errorf("context: %w", err).
var (
	// ErrMissingCredential marks a paid client constructed without an API
	// key. Checked before any planning or network step.
	ErrMissingCredential = errors.New("matrix: missing API credential")

	// ErrNoOriginSelected marks a session operation that requires an
	// origin while the session is idle.
	ErrNoOriginSelected = errors.New("session: no origin selected")

	// ErrUnknownProfile marks a profile key outside the closed enumeration
	// or absent from the loaded artifact.
	ErrUnknownProfile = errors.New("session: unknown profile")

	// ErrZoneIndexOutOfRange marks a zone index outside [0, N).
	ErrZoneIndexOutOfRange = errors.New("session: zone index out of range")

	// ErrSessionNotFound marks a lookup for an expired or never-created
	// session.
	ErrSessionNotFound = errors.New("session: not found")
)

// BudgetExceededError refuses a paid run whose projected cost would push the
// calendar month over its spending ceiling. It is raised before any network
// call is issued.
type BudgetExceededError struct {
	SpentUSD     float64
	ProjectedUSD float64
	LimitUSD     float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf(
		"budget exceeded: spent %.2f USD this month, run would add %.2f USD, monthly limit is %.2f USD",
		e.SpentUSD, e.ProjectedUSD, e.LimitUSD,
	)
}
