package service

import (
	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

const DefaultDecimals = 2

// CircuitReport is a computed reading with display strings.
type CircuitReport struct {
	State   entities.CircuitState
	Reading entities.CircuitReading
	Shares  [2]float64 // branch percentages for the bar chart

	Rt     string // Ω
	I      string // A
	P      string // W
	Branch [2]string
}

// BranchLabel names the per-branch values: voltage drops for series,
// branch currents for parallel.
func (r CircuitReport) BranchLabel() (title string, names [2]string, unit string) {
	if r.State.Topology == entities.TopologyParallel {
		return "Parallel Branch Currents", [2]string{"I1", "I2"}, "A"
	}
	return "Series Voltage Drops", [2]string{"V1", "V2"}, "V"
}

// CircuitService validates simulator input and computes readings.
type CircuitService struct {
	limits   entities.CircuitLimits
	decimals int
}

func NewCircuitService(limits entities.CircuitLimits, decimals int) (*CircuitService, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if decimals < 0 {
		decimals = DefaultDecimals
	}

	return &CircuitService{limits: limits, decimals: decimals}, nil
}

// Limits returns the editable input ranges.
func (s *CircuitService) Limits() entities.CircuitLimits {
	return s.limits
}

// Simulate rejects out-of-range input and computes the reading for state.
func (s *CircuitService) Simulate(state entities.CircuitState) (*CircuitReport, error) {
	if err := s.limits.Check(state); err != nil {
		return nil, err
	}

	reading, err := state.Compute()
	if err != nil {
		return nil, err
	}

	return &CircuitReport{
		State:   state,
		Reading: reading,
		Shares:  entities.BranchShares(reading.Branch),
		Rt:      s.format(reading.Rt),
		I:       s.format(reading.I),
		P:       s.format(reading.P),
		Branch:  [2]string{s.format(reading.Branch[0]), s.format(reading.Branch[1])},
	}, nil
}

func (s *CircuitService) format(v float64) string {
	return entities.FormatQuantity(v, s.decimals)
}
