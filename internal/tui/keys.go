package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is the register's keyboard surface. The shortcuts panel
// renders straight from these bindings, so the help text here is the
// user-facing contract.
type KeyMap struct {
	// Catalog navigation.
	Up    key.Binding
	Down  key.Binding
	Add   key.Binding // Add the highlighted product to the cart.
	Minus key.Binding // Decrement the highlighted product's line.

	// Focus.
	FocusSearch  key.Binding
	FocusCatalog key.Binding // Also dismisses whatever modal is open.

	// Session toggles.
	ToggleView           key.Binding
	ToggleWholesale      key.Binding
	ToggleBarcode        key.Binding
	ToggleQuickAdd       key.Binding
	ToggleCart           key.Binding
	ToggleCartFullscreen key.Binding
	ToggleCartCollapsed  key.Binding
	TogglePerformance    key.Binding

	// Modals.
	Shortcuts     key.Binding
	CustomerModal key.Binding
	Checkout      key.Binding // Discount, payment method, notes, coupon.

	// Data and drafts.
	Refresh      key.Binding
	SaveDraft    key.Binding
	RestoreDraft key.Binding

	// Checkout.
	ProcessSale key.Binding
	ClearCart   key.Binding

	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("enter", "+"),
		key.WithHelp("Enter/+", "add to cart"),
	),
	Minus: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "remove one"),
	),
	FocusSearch: key.NewBinding(
		key.WithKeys("/", "ctrl+f"),
		key.WithHelp("/", "search"),
	),
	FocusCatalog: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back to catalog"),
	),
	ToggleView: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("F2", "grid/list view"),
	),
	ToggleWholesale: key.NewBinding(
		key.WithKeys("f3"),
		key.WithHelp("F3", "wholesale mode"),
	),
	CustomerModal: key.NewBinding(
		key.WithKeys("f4"),
		key.WithHelp("F4", "customer"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f5"),
		key.WithHelp("F5", "refresh catalog"),
	),
	ToggleBarcode: key.NewBinding(
		key.WithKeys("f6"),
		key.WithHelp("F6", "barcode mode"),
	),
	ToggleQuickAdd: key.NewBinding(
		key.WithKeys("f7"),
		key.WithHelp("F7", "quick add"),
	),
	ToggleCart: key.NewBinding(
		key.WithKeys("f8"),
		key.WithHelp("F8", "cart panel"),
	),
	Checkout: key.NewBinding(
		key.WithKeys("f9"),
		key.WithHelp("F9", "checkout options"),
	),
	ToggleCartFullscreen: key.NewBinding(
		key.WithKeys("f10"),
		key.WithHelp("F10", "cart fullscreen"),
	),
	TogglePerformance: key.NewBinding(
		key.WithKeys("f11"),
		key.WithHelp("F11", "performance mode"),
	),
	ToggleCartCollapsed: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "collapse cart"),
	),
	Shortcuts: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "shortcuts"),
	),
	SaveDraft: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save draft"),
	),
	RestoreDraft: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "restore draft"),
	),
	ProcessSale: key.NewBinding(
		key.WithKeys("f12"),
		key.WithHelp("F12", "process sale"),
	),
	ClearCart: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "clear cart"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// bindings returns every binding with its display name, in the order
// the shortcuts panel lists them.
func (k KeyMap) bindings() []struct {
	Name    string
	Binding key.Binding
} {
	return []struct {
		Name    string
		Binding key.Binding
	}{
		{"Up", k.Up},
		{"Down", k.Down},
		{"Add", k.Add},
		{"Minus", k.Minus},
		{"FocusSearch", k.FocusSearch},
		{"FocusCatalog", k.FocusCatalog},
		{"ToggleView", k.ToggleView},
		{"ToggleWholesale", k.ToggleWholesale},
		{"ToggleBarcode", k.ToggleBarcode},
		{"ToggleQuickAdd", k.ToggleQuickAdd},
		{"ToggleCart", k.ToggleCart},
		{"ToggleCartFullscreen", k.ToggleCartFullscreen},
		{"ToggleCartCollapsed", k.ToggleCartCollapsed},
		{"TogglePerformance", k.TogglePerformance},
		{"Shortcuts", k.Shortcuts},
		{"CustomerModal", k.CustomerModal},
		{"Checkout", k.Checkout},
		{"Refresh", k.Refresh},
		{"SaveDraft", k.SaveDraft},
		{"RestoreDraft", k.RestoreDraft},
		{"ProcessSale", k.ProcessSale},
		{"ClearCart", k.ClearCart},
		{"Quit", k.Quit},
	}
}

// Validate rejects a key map where two actions claim the same chord.
// Called once at startup so a bad custom map fails loudly instead of
// dispatching whichever action happens to match first.
func (k KeyMap) Validate() error {
	seen := make(map[string]string)
	for _, b := range k.bindings() {
		for _, chord := range b.Binding.Keys() {
			if prev, dup := seen[chord]; dup {
				return fmt.Errorf("key %q bound to both %s and %s", chord, prev, b.Name)
			}
			seen[chord] = b.Name
		}
	}
	return nil
}
