package solver

import (
	"fmt"
	"io"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ wmi.TrialPosition) {
}

// LoggingTracer writes one line per trial.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p wmi.TrialPosition) {
	outcome := "miss"
	if p.Satisfied() {
		outcome = "hit"
	}
	fmt.Fprintf(t.Writer, "trial %d: drawn %d checked %d %s %v\n", p.Trial(), p.Drawn(), p.Checked(), outcome, p.Point())
}

type position struct {
	trial     int
	drawn     int
	checked   int
	satisfied bool
	point     *assignment
}

func (p position) Trial() int { return p.trial }

func (p position) Drawn() int { return p.drawn }

func (p position) Checked() int { return p.checked }

func (p position) Satisfied() bool { return p.satisfied }

// Point returns the Boolean part as 0/1 followed by the real part.
func (p position) Point() []float64 {
	return p.point.flatten()
}
