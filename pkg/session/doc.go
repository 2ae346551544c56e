// Package session ties the diagram pieces together for one ambient object.
//
// A [Session] builds every graph a document can be shown as, lays them out
// once, and keeps one of them on display:
//
//   - one graph per diagram variant (by default "C", conjugacy classes, and
//     "A", subgroups up to automorphism)
//   - for each variant, a leveled graph placed by the order table and the
//     tuple hint at index 6, and a by-order graph placed by the simple
//     ordering and the hint at index 7
//
// Switching the display mode swaps the graph under the renderer, carrying
// the selection across by node position. Pointer events go through an
// [interact.Controller]; icon loads go through an [icon.Fetcher] and resolve
// with a targeted redraw of the node they belong to.
//
// A Session is not safe for concurrent use. Programs that receive input on
// several goroutines run [Session.Run] and feed it through channels and
// [Session.Do]:
//
//	events := make(chan interact.Event)
//	go s.Run(ctx, events)
//	events <- interact.Event{Kind: interact.Press, X: 120, Y: 80}
//	s.Do(ctx, func(s *session.Session) error { return s.ToggleHeights() })
package session
