package graph

import "image"

// NodeTuple is one decoded node row of the input document:
// (label, key, rawPayload, size, rawOrderValue, iconUrl, hints...).
type NodeTuple struct {
	Label    string
	Key      string
	Raw      any
	Size     int
	RawOrder string
	IconURL  string

	// Hints holds the numeric tuple fields from index 6 onwards.
	Hints []float64
}

// Hint returns the numeric value at tuple position index. Positions before
// the hint fields yield the size for index 3 and zero otherwise; positions
// past the end of the tuple yield zero.
func (t NodeTuple) Hint(index int) float64 {
	switch {
	case index == 3:
		return float64(t.Size)
	case index < 6:
		return 0
	case index-6 < len(t.Hints):
		return t.Hints[index-6]
	default:
		return 0
	}
}

// IconState tracks an asynchronously loaded node icon.
type IconState int

const (
	// IconNone means the node has no icon URL (edge-created placeholders).
	IconNone IconState = iota
	// IconPending means the load has been requested but not finished.
	IconPending
	// IconReady means Image holds the decoded bitmap.
	IconReady
	// IconFailed means the load finished with an error.
	IconFailed
)

// String returns the state name.
func (s IconState) String() string {
	switch s {
	case IconPending:
		return "pending"
	case IconReady:
		return "ready"
	case IconFailed:
		return "failed"
	default:
		return "none"
	}
}

// Icon is the bitmap shown for a node.
type Icon struct {
	URL   string
	State IconState
	Image image.Image
	Err   error
}

// Resolve records the outcome of a load. A nil img with a nil err counts as
// a failure.
func (i *Icon) Resolve(img image.Image, err error) {
	if err != nil || img == nil {
		i.State = IconFailed
		i.Err = err
		i.Image = nil
		return
	}
	i.State = IconReady
	i.Image = img
	i.Err = nil
}

// Size returns the icon dimensions, or zero while it is not ready.
func (i *Icon) Size() (w, h float64) {
	if i.State != IconReady {
		return 0, 0
	}
	b := i.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Node is a vertex of the diagram.
type Node struct {
	Key      string
	Label    string
	Raw      any
	Size     int
	RawOrder string
	Level    Level
	Icon     Icon

	// HintX is the caller-supplied horizontal placement.
	HintX float64
	// Pos is the layout-space position assigned by the layout engine and
	// updated by dragging.
	Pos Point
	// Center is the pixel-space position set by the renderer. While a node
	// is dragged, Center follows the pointer and Pos is committed on release.
	Center Point

	Selected bool
	Highlit  bool

	// Index is the insertion position within the owning graph.
	Index int
}

// NodeOption adjusts a node as it is created by AddNode.
type NodeOption func(*Node)

// WithRaw overrides the raw payload carried by the node.
func WithRaw(raw any) NodeOption {
	return func(n *Node) { n.Raw = raw }
}

// WithLevel pins the node's level regardless of the order lookup.
func WithLevel(l Level) NodeOption {
	return func(n *Node) { n.Level = l }
}
