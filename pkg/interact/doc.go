// Package interact is the state machine between user input and the drawn
// graph.
//
// A [Controller] owns the selection and the highlight animation, drives the
// layout engine on every tick, and changes the viewport in response to
// pointer events. It never changes node positions itself; picking and
// drawing only read them.
//
// # Events
//
// Pointer events and ticks are fed one at a time by the host, which must
// serialize them. The controller has two states:
//
//   - Idle: a left press picks the nearest node, emits a [Selection] and
//     enters Dragging with the press position as the anchor.
//   - Dragging: moves pan the view by the delta since the anchor; a left
//     release returns to Idle. The selection is not touched by release.
//
// Scrolling zooms about the cursor in either state. A tick advances the
// layout one step, until it converges, and moves the highlight fraction
// forward, wrapping at 1.
//
// # Frames
//
// [Controller.Frame] returns a [Scene] in screen coordinates: edges as
// lines, nodes as circles, optional labels, and a marker circle travelling
// along every edge of the active node. Colours are roles resolved through a
// [Palette] by the host.
package interact
