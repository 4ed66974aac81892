package planner

// Error types attached to the errors returned by Plan. Check them with
// errors.IsType from go-tooling.
const (
	// ErrTypeInvalidConfig is returned when the configuration or a region is
	// unusable. It is always detected before the first sample is drawn.
	ErrTypeInvalidConfig = "invalid-config"

	// ErrTypeDegenerateInput is returned when the start point makes the
	// planning problem trivial or impossible.
	ErrTypeDegenerateInput = "degenerate-input"

	// ErrTypeNotConverged is returned when the iteration or node cap is hit
	// before a node reaches the goal.
	ErrTypeNotConverged = "not-converged"

	// ErrTypeCanceled is returned when the context is done before a node
	// reaches the goal.
	ErrTypeCanceled = "canceled"
)
