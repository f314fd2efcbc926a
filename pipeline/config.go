// Package pipeline implements the APEX pipeline controller: the CPU
// aggregate that owns every other component (rename table, UPRF/
// UCRF, predictor, RAS, reservation stations, reorder buffer,
// functional units) and drives them through one fixed-order Tick per
// cycle.
package pipeline

import (
	"github.com/sarchlab/apexsim/fu"
	"github.com/sarchlab/apexsim/predictor"
	"github.com/sarchlab/apexsim/rob"
)

// Default capacities and latencies; all are overridable via Option for
// testing and for cpu_settings.h-style tunables.
const (
	DefaultIRSCapacity = 8
	DefaultMRSCapacity = 2
	DefaultLSQCapacity = 6
)

// Config holds every tunable of the pipeline.
type Config struct {
	ROBCapacity       int
	IRSCapacity       int
	MRSCapacity       int
	LSQCapacity       int
	PredictorCapacity int
	RASCapacity       int
	IntLatency        uint64
	MulLatency        uint64
	MemLatency        uint64
}

// DefaultConfig returns the baseline set of capacities and latencies.
func DefaultConfig() Config {
	return Config{
		ROBCapacity:       rob.DefaultCapacity,
		IRSCapacity:       DefaultIRSCapacity,
		MRSCapacity:       DefaultMRSCapacity,
		LSQCapacity:       DefaultLSQCapacity,
		PredictorCapacity: predictor.DefaultCapacity,
		RASCapacity:       predictor.DefaultRASCapacity,
		IntLatency:        fu.DefaultIntLatency,
		MulLatency:        fu.DefaultMulLatency,
		MemLatency:        fu.DefaultMemLatency,
	}
}

// Option configures a CPU at construction time.
type Option func(*Config)

// WithROBCapacity overrides the reorder buffer capacity.
func WithROBCapacity(n int) Option { return func(c *Config) { c.ROBCapacity = n } }

// WithStationCapacities overrides the IRS/MRS/LSQ capacities.
func WithStationCapacities(irs, mrs, lsq int) Option {
	return func(c *Config) {
		c.IRSCapacity = irs
		c.MRSCapacity = mrs
		c.LSQCapacity = lsq
	}
}

// WithPredictorCapacity overrides the branch predictor table size.
func WithPredictorCapacity(n int) Option { return func(c *Config) { c.PredictorCapacity = n } }

// WithRASCapacity overrides the return-address stack depth.
func WithRASCapacity(n int) Option { return func(c *Config) { c.RASCapacity = n } }

// WithLatencies overrides the IntFU/MulFU/MemFU fixed latencies.
func WithLatencies(intLat, mulLat, memLat uint64) Option {
	return func(c *Config) {
		c.IntLatency = intLat
		c.MulLatency = mulLat
		c.MemLatency = memLat
	}
}
