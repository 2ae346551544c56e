package interact

import "github.com/lmfdb/latticeview/pkg/graph"

// Kind identifies an input or derived event.
type Kind int

const (
	Press Kind = iota
	Move
	Release
	TouchStart
	TouchMove
	TouchEnd
	// Leave means the pointer left the surface.
	Leave
	// HoverEnter and HoverLeave are emitted by the controller when the node
	// under the pointer changes; Key names the node.
	HoverEnter
	HoverLeave
)

var kindNames = [...]string{"press", "move", "release", "touchstart", "touchmove", "touchend", "leave", "hoverenter", "hoverleave"}

// String returns the lowercase event name used on the wire.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Button is the pointer button of a press.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is one pointer, touch or hover event in surface pixel coordinates.
type Event struct {
	Kind   Kind
	X, Y   float64
	Button Button
	// Touches holds the active touch points of touch events.
	Touches []graph.Point
	// Key is set on hover events.
	Key string
}

// Point returns the event position.
func (e Event) Point() graph.Point { return graph.Point{X: e.X, Y: e.Y} }
