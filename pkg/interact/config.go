package interact

import "github.com/lmfdb/latticeview/pkg/errors"

// DefaultLinkClass is applied to linked elements of the hovered node.
const DefaultLinkClass = "active"

// Config enumerates the interaction options.
type Config struct {
	// CanMoveVertically lets drags change a node's y. Off by default, since
	// y is fixed by the node's level.
	CanMoveVertically bool   `toml:"can_move_vertically" json:"can_move_vertically"`
	LinkClass         string `toml:"link_class" json:"link_class"`
}

// DefaultConfig returns level-locked dragging with the "active" link class.
func DefaultConfig() Config {
	return Config{LinkClass: DefaultLinkClass}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.LinkClass == "" {
		c.LinkClass = DefaultLinkClass
	}
}

// Validate reports an invalid option.
func (c Config) Validate() error {
	if c.LinkClass == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "link class must not be empty")
	}
	return nil
}
