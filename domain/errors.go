package domain

import "errors"

// Error kinds surfaced by the core. Callers should use errors.Is against
// these sentinels rather than matching on message text.
var (
	// ErrNotFound is returned when a referenced task id does not resolve.
	ErrNotFound = errors.New("task not found")

	// ErrDepMissing is returned when a dependency id does not resolve to
	// an existing task.
	ErrDepMissing = errors.New("dependency task not found")

	// ErrCircular is returned when applying a dependency update would
	// introduce a cycle through the task being updated.
	ErrCircular = errors.New("circular dependency")

	// ErrHasDependents is returned when deleting a task that other tasks
	// still list as a dependency.
	ErrHasDependents = errors.New("task has dependents")

	// ErrInvalidCurveArgs is returned by curve constructors when bounds
	// are malformed (deadline <= start, exponent out of range, priority
	// out of range, empty blocked dependency list).
	ErrInvalidCurveArgs = errors.New("invalid curve arguments")

	// ErrMissingCurveField is returned by the curve factory when a
	// required field for the requested curve type is absent.
	ErrMissingCurveField = errors.New("missing curve field")
)
