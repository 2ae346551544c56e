package layout

import (
	"github.com/lmfdb/latticeview/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultIterations is the number of relaxation iterations after the
	// initial spread.
	DefaultIterations = 10

	// DefaultK is the spring constant; repulsion scales with K².
	DefaultK = 3.0

	// DefaultC scales net force into movement.
	DefaultC = 0.01

	// DefaultMaxVertexMovement clamps the per-iteration step.
	DefaultMaxVertexMovement = 10.0

	// DefaultMaxRepulsiveForceDistance is the cutoff beyond which nodes do
	// not repel and edges stop pulling harder.
	DefaultMaxRepulsiveForceDistance = 200.0

	// DefaultSpreadWidth is the target for max|x| after spreading.
	DefaultSpreadWidth = 100.0

	// DefaultLinearHalfWidth is the half width of the forced x window in
	// linear mode.
	DefaultLinearHalfWidth = 20.0

	// DefaultLevelSpacing is the vertical distance between major levels.
	DefaultLevelSpacing = 10.0

	// DefaultSeed seeds the jitter used for coincident nodes.
	DefaultSeed = uint64(1)
)

// Config enumerates every layout option.
type Config struct {
	Relax                     bool    `toml:"relax" json:"relax"`
	Iterations                int     `toml:"iterations" json:"iterations"`
	K                         float64 `toml:"k" json:"k"`
	C                         float64 `toml:"c" json:"c"`
	MaxVertexMovement         float64 `toml:"max_vertex_movement" json:"max_vertex_movement"`
	MaxRepulsiveForceDistance float64 `toml:"max_repulsive_force_distance" json:"max_repulsive_force_distance"`
	SpreadWidth               float64 `toml:"spread_width" json:"spread_width"`
	LinearHalfWidth           float64 `toml:"linear_half_width" json:"linear_half_width"`
	LevelSpacing              float64 `toml:"level_spacing" json:"level_spacing"`
	FlipVertical              bool    `toml:"flip_vertical" json:"flip_vertical"`
	Seed                      uint64  `toml:"seed" json:"seed"`
}

// DefaultConfig returns the configuration used by the LMFDB pages:
// relaxation off, the spring constants of the original diagrams, and a
// 10 unit level spacing.
func DefaultConfig() Config {
	return Config{
		Iterations:                DefaultIterations,
		K:                         DefaultK,
		C:                         DefaultC,
		MaxVertexMovement:         DefaultMaxVertexMovement,
		MaxRepulsiveForceDistance: DefaultMaxRepulsiveForceDistance,
		SpreadWidth:               DefaultSpreadWidth,
		LinearHalfWidth:           DefaultLinearHalfWidth,
		LevelSpacing:              DefaultLevelSpacing,
		Seed:                      DefaultSeed,
	}
}

// SetDefaults fills zero-valued numeric fields with their defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.K == 0 {
		c.K = d.K
	}
	if c.C == 0 {
		c.C = d.C
	}
	if c.MaxVertexMovement == 0 {
		c.MaxVertexMovement = d.MaxVertexMovement
	}
	if c.MaxRepulsiveForceDistance == 0 {
		c.MaxRepulsiveForceDistance = d.MaxRepulsiveForceDistance
	}
	if c.SpreadWidth == 0 {
		c.SpreadWidth = d.SpreadWidth
	}
	if c.LinearHalfWidth == 0 {
		c.LinearHalfWidth = d.LinearHalfWidth
	}
	if c.LevelSpacing == 0 {
		c.LevelSpacing = d.LevelSpacing
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	switch {
	case c.Iterations < 0 || c.Iterations > 10000:
		return errors.New(errors.ErrCodeInvalidConfig, "layout iterations must be in [0, 10000], got %d", c.Iterations)
	case c.K <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout k must be positive, got %g", c.K)
	case c.C <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout c must be positive, got %g", c.C)
	case c.MaxVertexMovement <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max vertex movement must be positive, got %g", c.MaxVertexMovement)
	case c.MaxRepulsiveForceDistance <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max repulsive force distance must be positive, got %g", c.MaxRepulsiveForceDistance)
	case c.SpreadWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "spread width must be positive, got %g", c.SpreadWidth)
	case c.LinearHalfWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "linear half width must be positive, got %g", c.LinearHalfWidth)
	case c.LevelSpacing <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "level spacing must be positive, got %g", c.LevelSpacing)
	}
	return nil
}
