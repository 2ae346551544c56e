package graph

// Level is the (major, minor) ordering pair that decides vertical placement.
type Level struct {
	Major float64
	Minor float64
}

// Less orders levels by major then minor.
func (l Level) Less(o Level) bool {
	if l.Major != o.Major {
		return l.Major < o.Major
	}
	return l.Minor < o.Minor
}

// OrderLookup resolves a raw order value to a level.
type OrderLookup interface {
	Level(raw string) (Level, bool)
}

// OrderRow is one entry of the server-supplied order data.
type OrderRow struct {
	Raw   string
	Major float64
	Minor float64
}

// OrderTable is an OrderLookup backed by a map.
type OrderTable map[string]Level

// Level implements OrderLookup.
func (t OrderTable) Level(raw string) (Level, bool) {
	l, ok := t[raw]
	return l, ok
}

// NewOrderTable maps each row's raw value to its (major, minor) pair. Later
// rows with a repeated raw value replace earlier ones.
func NewOrderTable(rows []OrderRow) OrderTable {
	t := make(OrderTable, len(rows))
	for _, r := range rows {
		t[r.Raw] = Level{Major: r.Major, Minor: r.Minor}
	}
	return t
}

// SimpleOrdering maps each row's raw value to (position, 0), giving one
// evenly spaced row per distinct order.
func SimpleOrdering(rows []OrderRow) OrderTable {
	t := make(OrderTable, len(rows))
	for i, r := range rows {
		t[r.Raw] = Level{Major: float64(i)}
	}
	return t
}
