// Package io reads diagram input documents and writes layout exports.
//
// # Input Format
//
// A diagram document carries everything the page glue hands to the diagram
// core: the ambient identifier, one or more node/edge sets (for example
// "conjugacy classes" and "up to automorphism"), the order table and the
// number of layers:
//
//	{
//	  "ambient": "8.3",
//	  "diagrams": [
//	    {"nodes": [["e", 1, "", 1, 1, "icon0.png", 0, 0], ...],
//	     "edges": [[1, 2], [2, 4]]}
//	  ],
//	  "orders": [[1, 0, 0], [2, 1, 0], [4, 2, 0]],
//	  "num_layers": 3
//	}
//
// A diagram may also be given as a two element array [nodes, edges].
//
// Node tuples are (label, key, rawPayload, size, rawOrderValue, iconUrl,
// hint...). Decoding is permissive: keys and order values may be numbers or
// strings and are normalized to strings (integral numbers lose their
// fraction), missing fields take zero values, and a hint given as an array
// contributes its first element. Only structural problems, such as a tuple
// that is not an array, are reported as errors.
//
// # Exports
//
// [Positions] renders the copy-paste snapshot of committed x positions:
//
//	["8.3",[["1",0],["2",12.5]]]
//
// [WriteLayout] writes a full JSON description of a laid out graph.
package io
