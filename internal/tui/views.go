package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
	"github.com/eduardojeem/Mipos-sub011/internal/session"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	switch {
	case m.showShortcuts:
		return m.viewShortcuts()
	case m.showCustomer:
		return m.viewCustomerModal()
	case m.showCheckout:
		return m.viewCheckout()
	case m.receipt != nil:
		return m.viewReceipt()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.session.CartFullscreen {
		b.WriteString(m.viewCart())
	} else {
		catalogPane := m.viewCatalog()
		if m.session.CartOpen && !m.session.CartCollapsed {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				m.theme.panel.Render(catalogPane),
				m.theme.panel.Render(m.viewCart()),
			))
		} else {
			b.WriteString(m.theme.panel.Render(catalogPane))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())
	if m.notice != "" {
		style := m.theme.notification
		if m.noticeErr {
			style = m.theme.errorNote
		}
		b.WriteString("\n" + style.Render(m.notice))
	}
	return b.String()
}

func (m *Model) viewHeader() string {
	title := m.theme.title.Render("POS Register")
	search := m.search.View()
	if !m.searchFocused && m.query.Search == "" {
		search = m.theme.dimmed.Render("press / to search")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", search)
}

func (m *Model) viewCatalog() string {
	if len(m.filtered) == 0 {
		return m.theme.dimmed.Render("no products match")
	}

	var b strings.Builder
	for i, p := range m.filtered {
		line := m.renderProduct(p, i == m.cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderProduct(p domain.Product, selected bool) string {
	price := p.UnitPrice(m.session.WholesaleMode)

	var text string
	if m.session.ViewMode == session.ViewList {
		text = fmt.Sprintf("%-28s %-12s %8s  stock %d", p.Name, p.SKU, price.StringFixed(2), p.Stock)
	} else {
		text = fmt.Sprintf("%-28s %8s", p.Name, price.StringFixed(2))
	}

	if qty := m.cart.Quantity(p.ID); qty > 0 {
		text += fmt.Sprintf("  [x%d]", qty)
	}

	if m.session.PerformanceMode {
		// Plain strings keep redraws cheap on slow terminals.
		if selected {
			return "> " + text
		}
		return "  " + text
	}

	switch {
	case p.Stock <= 0:
		text = m.theme.outOfStock.Render(text)
	case selected:
		text = m.theme.cursor.Render("> " + text)
	default:
		text = m.theme.normal.Render("  " + text)
	}
	return text
}

func (m *Model) viewCart() string {
	var b strings.Builder
	b.WriteString(m.theme.cartHeader.Render("Cart"))
	b.WriteString("\n")

	lines := m.cart.Lines()
	if len(lines) == 0 {
		b.WriteString(m.theme.dimmed.Render("empty"))
		return b.String()
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("%-24s x%-3d %8s\n", l.Name, l.Quantity, l.LineTotal().StringFixed(2)))
	}

	b.WriteString(m.theme.cartTotal.Render(
		fmt.Sprintf("%d items   subtotal %s", m.cart.ItemCount(), m.cart.Subtotal().StringFixed(2))))

	if !m.discount.IsZero() {
		b.WriteString("\n" + m.theme.dimmed.Render(
			fmt.Sprintf("discount %s (%s)", m.discount.StringFixed(2), m.discountType)))
	}
	if m.customerID != "" {
		if c, ok := m.data.Customer(m.customerID); ok {
			b.WriteString("\n" + m.theme.dimmed.Render("customer: "+c.Name))
		}
	}
	return b.String()
}

func (m *Model) viewStatusBar() string {
	flag := func(name string, on bool) string {
		if on {
			return m.theme.statusFlag.Render(name)
		}
		return m.theme.statusOff.Render(name)
	}

	parts := []string{
		flag("WHOLESALE", m.session.WholesaleMode),
		flag("BARCODE", m.session.BarcodeMode),
		flag("QUICK-ADD", m.session.QuickAddMode),
		m.theme.statusBar.Render(string(m.session.ViewMode)),
		m.theme.statusBar.Render(m.keys.Shortcuts.Help().Key + " help"),
	}
	return strings.Join(parts, "  ")
}

func (m *Model) viewShortcuts() string {
	var b strings.Builder
	b.WriteString(m.theme.title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, entry := range m.keys.bindings() {
		help := entry.Binding.Help()
		b.WriteString(fmt.Sprintf("%-10s %s\n", help.Key, help.Desc))
	}
	b.WriteString("\n" + m.theme.dimmed.Render("Esc to close"))
	return m.theme.modal.Render(b.String())
}

func (m *Model) viewCustomerModal() string {
	var b strings.Builder
	b.WriteString(m.theme.title.Render("Assign Customer"))
	b.WriteString("\n\n")

	customers := m.data.Get().Customers
	if len(customers) == 0 {
		b.WriteString(m.theme.dimmed.Render("no customers loaded"))
	}
	for i, c := range customers {
		line := fmt.Sprintf("%-24s %s", c.Name, c.Email)
		if i == m.customerCursor {
			line = m.theme.cursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.theme.dimmed.Render("Enter to assign, Esc to close"))
	return m.theme.modal.Render(b.String())
}

func (m *Model) viewCheckout() string {
	var b strings.Builder
	b.WriteString(m.theme.title.Render("Checkout Options"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Discount", m.discountInput.View()},
		{"Type", string(m.formType)},
		{"Payment", string(m.formPayment)},
		{"Notes", m.notesInput.View()},
		{"Coupon", m.couponInput.View()},
	}
	for i, row := range rows {
		line := fmt.Sprintf("%-10s %s", row.label, row.value)
		if i == m.checkoutRow {
			line = m.theme.cursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.theme.dimmed.Render("←/→ change type and payment, Enter to apply, Esc to cancel"))
	return m.theme.modal.Render(b.String())
}

func (m *Model) viewReceipt() string {
	r := m.receipt
	var b strings.Builder
	b.WriteString(m.theme.title.Render("Receipt"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Sale %s\n\n", r.ID))
	for _, item := range r.Items {
		b.WriteString(fmt.Sprintf("%-24s x%-3d %8s\n", item.ProductName, item.Quantity, item.LineTotal.StringFixed(2)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("subtotal %10s\n", r.Subtotal.StringFixed(2)))
	if !r.Discount.IsZero() {
		b.WriteString(fmt.Sprintf("discount %10s\n", r.Discount.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("tax      %10s\n", r.Tax.StringFixed(2)))
	b.WriteString(m.theme.cartTotal.Render(fmt.Sprintf("total    %10s", r.Total.StringFixed(2))))
	b.WriteString("\n\n" + m.theme.dimmed.Render(string(r.PaymentMethod)+"  ·  Esc to close"))
	return m.theme.modal.Render(b.String())
}
