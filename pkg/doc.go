// Package pkg provides the libraries behind latticeview, the subgroup lattice
// viewer for LMFDB abstract group pages.
//
// # Overview
//
// A subgroup lattice document lists, for one ambient group, the diagram
// variants (conjugacy classes, all subgroups, ...) with their nodes, edges
// and the order data that decides each node's height. The pkg directory
// turns such a document into an interactive picture:
//
//  1. [io] - Document decoding, position snapshots and layout export
//  2. [graph] - Nodes, edges, levels and selection state
//  3. [layout] - Linear and leveled placement with spring relaxation
//  4. [render] - Raster drawing with fogleman/gg, plus [render/nodelink] DOT
//  5. [interact] - Pointer and touch state machine (hover, drag, select)
//  6. [session] - One diagram on screen, tying the pieces above together
//
// Supporting packages load documents and side content:
//
//   - [source] - Documents from a directory, MongoDB or PostgreSQL
//   - [icon] - Node label images fetched over HTTP
//   - [infopanel] - Subgroup info fetched for the selected node
//   - [cache], [httputil] - Response caching and retrying HTTP client
//   - [config], [errors], [observability], [fonts], [buildinfo]
//
// # Data Flow
//
//	Document (JSON file, MongoDB, PostgreSQL)
//	         ↓
//	    [io] package (decode variants and order table)
//	         ↓
//	    [graph] package (nodes on levels, edges)
//	         ↓
//	    [layout] package (x from hints, y from level)
//	         ↓
//	    [render] package (PNG frame)
//	         ↓
//	    [interact] events → [session] redraw
//
// # Quick Start
//
//	import (
//	    pkgio "github.com/lmfdb/latticeview/pkg/io"
//	    "github.com/lmfdb/latticeview/pkg/session"
//	)
//
//	doc, _ := pkgio.ReadDocumentFile("8.3.json")
//	sess, _ := session.New(doc, session.DefaultConfig())
//	_ = sess.FetchIcons(ctx)
//	_ = sess.Renderer().SavePNG("8.3.png")
//	fmt.Println(sess.Positions())
//
// The command line tool in cmd/latticeview and the HTTP server in
// internal/server are thin layers over [session].
//
// [io]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/io
// [graph]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/graph
// [layout]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/layout
// [render]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/render/nodelink
// [interact]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/interact
// [session]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/session
// [source]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/source
// [icon]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/icon
// [infopanel]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/infopanel
// [cache]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/httputil
// [config]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/config
// [errors]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/lmfdb/latticeview/pkg/buildinfo
package pkg
