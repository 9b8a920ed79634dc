package geom

import "fmt"

// InsufficientInputError reports that an operation received fewer path
// points than its numerical minimum. It is recoverable: callers typically
// retry with a denser trace or surface a message.
type InsufficientInputError struct {
	Op       string // operation that rejected the input
	Required int    // minimum number of points
	Got      int    // number of points supplied
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s: insufficient input: need at least %d points, got %d", e.Op, e.Required, e.Got)
}
