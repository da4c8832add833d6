package wmi

// TrialPosition describes one iteration of the coverage loop.
type TrialPosition interface {
	Trial() int
	// Drawn is the clause the current point was sampled from.
	Drawn() int
	// Checked is the uniformly chosen clause the point was tested on.
	Checked() int
	Satisfied() bool
	Point() []float64
}

type Tracer interface {
	Trace(p TrialPosition)
}
