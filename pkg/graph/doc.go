// Package graph provides the node/edge model behind a subgroup diagram.
//
// A [Graph] is built once from server-supplied tuples and then handed to the
// layout engine and the renderer. It never fails on incomplete data: a
// missing order entry resolves to the zero [Level], an edge naming an unknown
// key creates a bare placeholder node, and a node without an icon simply
// draws without one.
//
// # Building a Graph
//
//	orders := graph.NewOrderTable([]graph.OrderRow{{Raw: "1", Major: 0}, {Raw: "2", Major: 1}})
//	g := graph.New()
//	g.AddNodes([]graph.NodeTuple{
//	    {Label: "e", Key: "1", RawOrder: "1", IconURL: "icon0.png"},
//	    {Label: "G", Key: "2", RawOrder: "2", IconURL: "icon1.png", Hints: []float64{1}},
//	}, orders, 6)
//	g.AddEdge("1", "2")
//
// # Identity
//
// Keys are unique within a Graph. Re-adding a key returns the existing node
// untouched, so the metadata of the first call wins.
//
// # Orderings
//
// Vertical placement comes from an [OrderLookup]. [NewOrderTable] resolves a
// raw order value to the (major, minor) pair supplied by the server, while
// [SimpleOrdering] resolves it to its position in the order list. A diagram
// session builds one graph per ordering so the user can switch between them.
//
// # Icons
//
// Each node carries an [Icon] whose state moves from [IconPending] to
// [IconReady] or [IconFailed]. The graph itself performs no I/O: when an icon
// requester is installed with [WithIconRequester], it is called for every
// newly created node that names an icon URL.
package graph
