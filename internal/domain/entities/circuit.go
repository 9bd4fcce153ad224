package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Topology is the circuit configuration that decides how resistances combine.
type Topology string

const (
	TopologySeries   Topology = "series"
	TopologyParallel Topology = "parallel"
)

// ParseTopology converts user input into a Topology.
func ParseTopology(s string) (Topology, error) {
	switch Topology(strings.ToLower(strings.TrimSpace(s))) {
	case TopologySeries:
		return TopologySeries, nil
	case TopologyParallel:
		return TopologyParallel, nil
	default:
		return "", fmt.Errorf("%w: unknown topology %q", ErrInvalidInput, s)
	}
}

// CircuitState is the current input snapshot of the simulator.
type CircuitState struct {
	Voltage  float64  // source voltage, V
	R1       float64  // first resistor, Ω
	R2       float64  // second resistor, Ω
	Topology Topology // series or parallel
}

// SeriesReading holds derived values of a series circuit.
type SeriesReading struct {
	Rt float64 // total resistance
	I  float64 // total current
	P  float64 // total power
	V1 float64 // voltage drop across R1
	V2 float64 // voltage drop across R2
}

// ParallelReading holds derived values of a parallel circuit.
type ParallelReading struct {
	Rt float64 // total resistance
	I  float64 // total current
	P  float64 // total power
	I1 float64 // current through R1
	I2 float64 // current through R2
}

// CircuitReading is the topology-independent view used for display.
// Branch holds the per-branch values: voltage drops for series,
// branch currents for parallel.
type CircuitReading struct {
	Topology Topology
	Rt       float64
	I        float64
	P        float64
	Branch   [2]float64
}

// ComputeSeries derives series values. R1 and R2 must be positive.
func ComputeSeries(v, r1, r2 float64) (SeriesReading, error) {
	if err := checkInputs(v, r1, r2); err != nil {
		return SeriesReading{}, err
	}

	rt := r1 + r2
	i := v / rt

	return SeriesReading{
		Rt: rt,
		I:  i,
		P:  v * i,
		V1: v * r1 / rt,
		V2: v * r2 / rt,
	}, nil
}

// ComputeParallel derives parallel values. R1 and R2 must be positive.
func ComputeParallel(v, r1, r2 float64) (ParallelReading, error) {
	if err := checkInputs(v, r1, r2); err != nil {
		return ParallelReading{}, err
	}

	rt := 1 / (1/r1 + 1/r2)
	i := v / rt

	return ParallelReading{
		Rt: rt,
		I:  i,
		P:  v * i,
		I1: v / r1,
		I2: v / r2,
	}, nil
}

// Compute recalculates the reading for the current inputs. Nothing is cached.
func (c CircuitState) Compute() (CircuitReading, error) {
	switch c.Topology {
	case TopologySeries:
		r, err := ComputeSeries(c.Voltage, c.R1, c.R2)
		if err != nil {
			return CircuitReading{}, err
		}
		return CircuitReading{Topology: TopologySeries, Rt: r.Rt, I: r.I, P: r.P, Branch: [2]float64{r.V1, r.V2}}, nil

	case TopologyParallel:
		r, err := ComputeParallel(c.Voltage, c.R1, c.R2)
		if err != nil {
			return CircuitReading{}, err
		}
		return CircuitReading{Topology: TopologyParallel, Rt: r.Rt, I: r.I, P: r.P, Branch: [2]float64{r.I1, r.I2}}, nil

	default:
		return CircuitReading{}, fmt.Errorf("%w: unknown topology %q", ErrInvalidInput, c.Topology)
	}
}

func checkInputs(v, r1, r2 float64) error {
	if !isFinite(v) || !isFinite(r1) || !isFinite(r2) {
		return fmt.Errorf("%w: circuit values must be finite", ErrInvalidInput)
	}
	if r1 <= 0 || r2 <= 0 {
		return fmt.Errorf("%w: resistances must be positive (R1=%g, R2=%g)", ErrInvalidInput, r1, r2)
	}
	return nil
}

// CircuitLimits are the editable input ranges of the simulator.
type CircuitLimits struct {
	VoltageMin    float64
	VoltageMax    float64
	ResistanceMin float64
	ResistanceMax float64
}

// DefaultCircuitLimits returns the slider ranges: 0-120 V and 1-100 Ω.
func DefaultCircuitLimits() CircuitLimits {
	return CircuitLimits{
		VoltageMin:    0,
		VoltageMax:    120,
		ResistanceMin: 1,
		ResistanceMax: 100,
	}
}

// Validate checks that the limits themselves keep resistances positive.
func (l CircuitLimits) Validate() error {
	if l.ResistanceMin <= 0 {
		return fmt.Errorf("%w: minimum resistance must be positive, got %g", ErrInvalidInput, l.ResistanceMin)
	}
	if l.VoltageMin > l.VoltageMax || l.ResistanceMin > l.ResistanceMax {
		return fmt.Errorf("%w: circuit limits are inverted", ErrInvalidInput)
	}
	return nil
}

// Check rejects a state outside the editable ranges.
func (l CircuitLimits) Check(c CircuitState) error {
	if !isFinite(c.Voltage) || c.Voltage < l.VoltageMin || c.Voltage > l.VoltageMax {
		return fmt.Errorf("%w: voltage %g outside [%g, %g]", ErrInvalidInput, c.Voltage, l.VoltageMin, l.VoltageMax)
	}
	for _, r := range []struct {
		name  string
		value float64
	}{{"R1", c.R1}, {"R2", c.R2}} {
		if !isFinite(r.value) || r.value < l.ResistanceMin || r.value > l.ResistanceMax {
			return fmt.Errorf("%w: %s %g outside [%g, %g]", ErrInvalidInput, r.name, r.value, l.ResistanceMin, l.ResistanceMax)
		}
	}
	return nil
}

// Clamp pulls every input into range, the way a slider would.
func (l CircuitLimits) Clamp(c CircuitState) CircuitState {
	c.Voltage = clamp(c.Voltage, l.VoltageMin, l.VoltageMax)
	c.R1 = clamp(c.R1, l.ResistanceMin, l.ResistanceMax)
	c.R2 = clamp(c.R2, l.ResistanceMin, l.ResistanceMax)
	return c
}

// FormatQuantity formats v for display with the given number of decimals.
// Non-finite values render as "-".
func FormatQuantity(v float64, decimals int) string {
	if !isFinite(v) {
		return "-"
	}
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// minBranchShare keeps a tiny branch visible in the bar chart.
const minBranchShare = 2.0

// BranchShares returns each value's percentage of their sum, at least 2% each.
func BranchShares(values [2]float64) [2]float64 {
	sum := values[0] + values[1]
	if sum <= 0 || !isFinite(sum) {
		return [2]float64{minBranchShare, minBranchShare}
	}

	var shares [2]float64
	for i, v := range values {
		shares[i] = math.Max(minBranchShare, v/sum*100)
	}
	return shares
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
