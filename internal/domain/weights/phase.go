package weights

import (
	"fmt"
	"math"

	"github.com/okian/vantage/internal/domain/model"
)

const phaseSumTolerance = 1e-9

// PhaseModel holds the base public/private phase weights. The bases must
// sum to 1; per-crunch weights divide the base by the phase's duration
// in crunches.
type PhaseModel struct {
	public  float64
	private float64
}

// NewPhaseModel validates and builds a phase model.
func NewPhaseModel(public, private float64) (*PhaseModel, error) {
	if public < 0 || private < 0 {
		return nil, fmt.Errorf("phase weights must not be negative: public=%v private=%v", public, private)
	}
	if math.Abs(public+private-1) > phaseSumTolerance {
		return nil, fmt.Errorf("phase weights must sum to 1: public=%v private=%v", public, private)
	}
	return &PhaseModel{public: public, private: private}, nil
}

// Base returns the un-normalized weight of a phase kind.
func (p *PhaseModel) Base(kind model.PhaseKind) float64 {
	if kind == model.PhaseOutOfSample {
		return p.private
	}
	return p.public
}

// PerCrunch returns the phase weight normalized by the phase's duration
// in crunches. Non-positive durations yield 0.
func (p *PhaseModel) PerCrunch(kind model.PhaseKind, durationCrunches int) float64 {
	if durationCrunches <= 0 {
		return 0
	}
	return p.Base(kind) / float64(durationCrunches)
}
