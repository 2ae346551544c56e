// Package interact turns pointer and touch input into diagram selection,
// highlighting and dragging.
//
// A [Controller] owns a small state machine (Idle, Dragging) and a callback
// table keyed by event [Kind]. Input arrives as [Event] values from any
// toolkit: the bubbletea browser, the websocket server, or tests. Touch
// events are rewritten into the equivalent pointer events before dispatch,
// so one set of handlers serves both.
//
// Hover changes are themselves events (HoverEnter, HoverLeave) flowing
// through the same table, which is how a [Linker] learns to mark
// same-key elements outside the diagram as active.
package interact
