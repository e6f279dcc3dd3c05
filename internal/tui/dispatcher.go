package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a named action produced by the key dispatcher. The
// orchestrator switches on these instead of raw key strings.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdAdd
	CmdMinus
	CmdFocusSearch
	CmdFocusCatalog
	CmdToggleView
	CmdToggleWholesale
	CmdToggleBarcode
	CmdToggleQuickAdd
	CmdToggleCart
	CmdToggleCartFullscreen
	CmdToggleCartCollapsed
	CmdTogglePerformance
	CmdShortcuts
	CmdCustomerModal
	CmdCheckout
	CmdRefresh
	CmdSaveDraft
	CmdRestoreDraft
	CmdProcessSale
	CmdClearCart
	CmdQuit
)

// Dispatcher maps key presses to commands. While a text input has
// focus, every chord except the always-active set (quit, escape) is
// suppressed so shortcuts cannot fire mid-typing.
type Dispatcher struct {
	keys KeyMap
}

func NewDispatcher(keys KeyMap) *Dispatcher {
	return &Dispatcher{keys: keys}
}

func (d *Dispatcher) Dispatch(msg tea.KeyMsg, inputFocused bool) Command {
	switch {
	case key.Matches(msg, d.keys.Quit):
		return CmdQuit
	case key.Matches(msg, d.keys.FocusCatalog):
		return CmdFocusCatalog
	}

	if inputFocused {
		return CmdNone
	}

	switch {
	case key.Matches(msg, d.keys.Up):
		return CmdUp
	case key.Matches(msg, d.keys.Down):
		return CmdDown
	case key.Matches(msg, d.keys.Add):
		return CmdAdd
	case key.Matches(msg, d.keys.Minus):
		return CmdMinus
	case key.Matches(msg, d.keys.FocusSearch):
		return CmdFocusSearch
	case key.Matches(msg, d.keys.ToggleView):
		return CmdToggleView
	case key.Matches(msg, d.keys.ToggleWholesale):
		return CmdToggleWholesale
	case key.Matches(msg, d.keys.ToggleBarcode):
		return CmdToggleBarcode
	case key.Matches(msg, d.keys.ToggleQuickAdd):
		return CmdToggleQuickAdd
	case key.Matches(msg, d.keys.ToggleCart):
		return CmdToggleCart
	case key.Matches(msg, d.keys.ToggleCartFullscreen):
		return CmdToggleCartFullscreen
	case key.Matches(msg, d.keys.ToggleCartCollapsed):
		return CmdToggleCartCollapsed
	case key.Matches(msg, d.keys.TogglePerformance):
		return CmdTogglePerformance
	case key.Matches(msg, d.keys.Shortcuts):
		return CmdShortcuts
	case key.Matches(msg, d.keys.CustomerModal):
		return CmdCustomerModal
	case key.Matches(msg, d.keys.Checkout):
		return CmdCheckout
	case key.Matches(msg, d.keys.Refresh):
		return CmdRefresh
	case key.Matches(msg, d.keys.SaveDraft):
		return CmdSaveDraft
	case key.Matches(msg, d.keys.RestoreDraft):
		return CmdRestoreDraft
	case key.Matches(msg, d.keys.ProcessSale):
		return CmdProcessSale
	case key.Matches(msg, d.keys.ClearCart):
		return CmdClearCart
	}
	return CmdNone
}
