// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (pane chrome, stacks, bars, popup overlay)
//
// Not allowed here:
// - key handling, app state transitions, or data loading
package widgets

// Widget renders itself into a width x height cell area.
type Widget interface {
	Render(width, height int) string
}

// Text is a Widget over a pre-rendered string.
type Text string

func (t Text) Render(width, height int) string {
	return clip(string(t), width, height)
}
