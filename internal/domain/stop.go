package domain

// A named stop supplied by the caller for one optimization request.
// Position is the caller-assigned index in its own list; optimization
// reorders stops but reports them back with their original positions so the
// caller can commit the new ordering.
// Stops are immutable value data; the planner does not own their lifecycle.
type Stop struct {
	Name     string
	Coord    Coordinate
	Position int
}
