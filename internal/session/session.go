// Package session owns the register screen's cross-cutting UI state.
// All mutation goes through Apply with a closed set of actions; no
// component writes a field directly.
package session

import "time"

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// State is the per-mount session state. It lives as long as one POS
// screen and is discarded on exit, except for the flags mirrored to
// durable storage (cart fullscreen and quick-add mode).
type State struct {
	WholesaleMode   bool
	BarcodeMode     bool
	QuickAddMode    bool
	PerformanceMode bool

	ViewMode       ViewMode
	CartOpen       bool
	CartFullscreen bool
	CartCollapsed  bool

	LastActivity time.Time
}

// Initial is the mount-time state: every toggle off, grid view.
func Initial() State {
	return State{ViewMode: ViewGrid}
}

type Action int

const (
	ToggleWholesale Action = iota
	ToggleBarcode
	ToggleQuickAdd
	TogglePerformance
	ToggleView
	ToggleCart
	ToggleCartFullscreen
	ToggleCartCollapsed
	OpenCart
	CloseCart
	MarkActivity
	Reset
)

// Apply returns the next state for an action. Pure: the input state is
// copied, never mutated. Every action also counts as activity.
func Apply(s State, a Action, now time.Time) State {
	next := s
	next.LastActivity = now

	switch a {
	case ToggleWholesale:
		next.WholesaleMode = !s.WholesaleMode
	case ToggleBarcode:
		next.BarcodeMode = !s.BarcodeMode
	case ToggleQuickAdd:
		next.QuickAddMode = !s.QuickAddMode
	case TogglePerformance:
		next.PerformanceMode = !s.PerformanceMode
	case ToggleView:
		if s.ViewMode == ViewGrid {
			next.ViewMode = ViewList
		} else {
			next.ViewMode = ViewGrid
		}
	case ToggleCart:
		next.CartOpen = !s.CartOpen
	case ToggleCartFullscreen:
		next.CartFullscreen = !s.CartFullscreen
	case ToggleCartCollapsed:
		next.CartCollapsed = !s.CartCollapsed
	case OpenCart:
		next.CartOpen = true
	case CloseCart:
		next.CartOpen = false
	case MarkActivity:
		// LastActivity already stamped above.
	case Reset:
		next = Initial()
		next.LastActivity = now
	}

	return next
}
