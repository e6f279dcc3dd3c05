package tui

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/cart"
	"github.com/eduardojeem/Mipos-sub011/internal/catalog"
	"github.com/eduardojeem/Mipos-sub011/internal/checkout"
	"github.com/eduardojeem/Mipos-sub011/internal/domain"
	"github.com/eduardojeem/Mipos-sub011/internal/draft"
	"github.com/eduardojeem/Mipos-sub011/internal/session"
)

// Loader fetches the read-only catalog in bulk. The HTTP client
// satisfies it; tests plug in fixtures.
type Loader interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Customers(ctx context.Context) ([]domain.Customer, error)
}

// DataRef holds the current catalog generation behind a lock so the
// draft manager can resolve references against whatever generation is
// live when a restore happens.
type DataRef struct {
	mu   sync.RWMutex
	data *catalog.Data
}

func NewDataRef() *DataRef {
	return &DataRef{data: catalog.NewData(nil, nil, nil)}
}

func (r *DataRef) Set(d *catalog.Data) {
	r.mu.Lock()
	r.data = d
	r.mu.Unlock()
}

func (r *DataRef) Get() *catalog.Data {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

func (r *DataRef) Product(id string) (domain.Product, bool)   { return r.Get().Product(id) }
func (r *DataRef) Customer(id string) (domain.Customer, bool) { return r.Get().Customer(id) }

// RefreshMsg asks the model to reload the catalog. The realtime bridge
// sends it through the program whenever a debounced refresh fires.
type RefreshMsg struct{}

// ActivityMsg stamps last-activity in the session. The cart store's
// activity callback sends it so idle tracking covers every cart
// mutation, including ones made off the update loop.
type ActivityMsg struct{}

type catalogMsg struct {
	data *catalog.Data
	err  error
}

type saleDoneMsg struct {
	record *domain.SaleRecord
	err    error
}

type clearNoticeMsg struct{ seq int }

// Model is the register screen: catalog pane, cart pane, modals, and
// the session reducer gluing them together.
type Model struct {
	keys       KeyMap
	dispatcher *Dispatcher
	theme      theme

	loader    Loader
	data      *DataRef
	cart      *cart.Store
	drafts    *draft.Manager
	sequencer *checkout.Sequencer
	flags     session.FlagStore

	session session.State
	query   catalog.Query

	search        textinput.Model
	searchFocused bool
	cursor        int
	filtered      []domain.Product

	// Checkout-time overrides, reset after every accepted sale.
	discount     decimal.Decimal
	discountType domain.DiscountType
	payment      domain.PaymentMethod
	notes        string
	coupon       string
	customerID   string

	showShortcuts  bool
	showCustomer   bool
	customerCursor int
	receipt        *domain.SaleRecord

	// Checkout options form; staged until the operator confirms.
	showCheckout  bool
	checkoutRow   int
	formType      domain.DiscountType
	formPayment   domain.PaymentMethod
	discountInput textinput.Model
	notesInput    textinput.Model
	couponInput   textinput.Model

	notice    string
	noticeErr bool
	noticeSeq int

	checkoutBusy bool

	width  int
	height int
	now    func() time.Time
}

// Deps carries everything the model does not own itself.
type Deps struct {
	Keys      KeyMap
	Loader    Loader
	Data      *DataRef
	Cart      *cart.Store
	Drafts    *draft.Manager
	Sequencer *checkout.Sequencer
	Flags     session.FlagStore
}

func NewModel(deps Deps) (*Model, error) {
	if err := deps.Keys.Validate(); err != nil {
		return nil, err
	}

	search := textinput.New()
	search.Placeholder = "search products"
	search.CharLimit = 64
	search.Width = 32

	discountInput := textinput.New()
	discountInput.Placeholder = "0"
	discountInput.CharLimit = 10
	discountInput.Width = 10

	notesInput := textinput.New()
	notesInput.Placeholder = "order notes"
	notesInput.CharLimit = 128
	notesInput.Width = 32

	couponInput := textinput.New()
	couponInput.Placeholder = "coupon code"
	couponInput.CharLimit = 32
	couponInput.Width = 16

	state := session.Initial()
	if deps.Flags != nil {
		flags, err := deps.Flags.Load()
		if err != nil {
			log.Printf("mirrored flags unavailable: %v", err)
		} else {
			state = session.ApplyFlags(state, flags)
		}
	}

	return &Model{
		keys:          deps.Keys,
		dispatcher:    NewDispatcher(deps.Keys),
		theme:         defaultTheme(),
		loader:        deps.Loader,
		data:          deps.Data,
		cart:          deps.Cart,
		drafts:        deps.Drafts,
		sequencer:     deps.Sequencer,
		flags:         deps.Flags,
		session:       state,
		query:         catalog.Query{Category: catalog.CategoryAll, SortBy: catalog.SortByName, Order: catalog.SortAsc},
		search:        search,
		discountInput: discountInput,
		notesInput:    notesInput,
		couponInput:   couponInput,
		discountType:  domain.DiscountPercentage,
		payment:       domain.PaymentCash,
		now:           time.Now,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m *Model) loadCatalog() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		products, err := loader.Products(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		categories, err := loader.Categories(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		customers, err := loader.Customers(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		return catalogMsg{data: catalog.NewData(products, categories, customers)}
	}
}

func (m *Model) processSale() tea.Cmd {
	seq := m.sequencer
	ov := checkout.Overrides{
		Discount:      m.discount,
		DiscountType:  m.discountType,
		PaymentMethod: m.payment,
		Notes:         m.notes,
		CouponCode:    m.coupon,
		CustomerID:    m.customerID,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		record, err := seq.Process(ctx, ov)
		return saleDoneMsg{record: record, err: err}
	}
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RefreshMsg:
		return m, m.loadCatalog()

	case ActivityMsg:
		m.apply(session.MarkActivity)
		return m, nil

	case catalogMsg:
		if msg.err != nil {
			log.Printf("catalog refresh failed: %v", msg.err)
			return m, m.notify("catalog refresh failed, retrying on next cycle", true)
		}
		m.data.Set(msg.data)
		m.refilter()
		return m, nil

	case saleDoneMsg:
		return m.handleSaleDone(msg)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleSaleDone(msg saleDoneMsg) (tea.Model, tea.Cmd) {
	m.checkoutBusy = false
	if msg.err != nil {
		if errors.Is(msg.err, checkout.ErrEmptyCart) {
			return m, m.notify("cart is empty", true)
		}
		// Cart is untouched; the operator retries without re-entering.
		return m, m.notify("sale failed: "+msg.err.Error(), true)
	}

	m.receipt = msg.record
	m.resetOverrides()
	if err := m.drafts.Clear(); err != nil {
		log.Printf("draft clear after sale failed: %v", err)
	}
	return m, tea.Batch(
		m.notify("sale "+msg.record.ID+" accepted", false),
		// Stock moved on the backend; show it without waiting for the
		// realtime round-trip.
		m.loadCatalog(),
	)
}

func (m *Model) resetOverrides() {
	m.discount = decimal.Zero
	m.discountType = domain.DiscountPercentage
	m.payment = domain.PaymentCash
	m.notes = ""
	m.coupon = ""
	m.customerID = ""
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.dispatcher.Dispatch(msg, m.searchFocused || m.showCheckout)

	if cmd == CmdQuit {
		m.persistFlags()
		return m, tea.Quit
	}

	if cmd == CmdFocusCatalog {
		m.searchFocused = false
		m.search.Blur()
		m.showShortcuts = false
		m.showCustomer = false
		m.closeCheckout()
		m.receipt = nil
		return m, nil
	}

	if m.showCheckout {
		return m.handleCheckoutKey(msg)
	}

	if m.searchFocused {
		if msg.Type == tea.KeyEnter {
			if m.session.BarcodeMode {
				return m, m.scanBarcode()
			}
			m.searchFocused = false
			m.search.Blur()
			return m, nil
		}
		var inputCmd tea.Cmd
		m.search, inputCmd = m.search.Update(msg)
		m.query.Search = m.search.Value()
		m.refilter()
		return m, inputCmd
	}

	if m.showCustomer {
		return m.handleCustomerModalKey(cmd)
	}

	return m.handleCommand(cmd)
}

// scanBarcode treats the search text as a scanned code: an exact SKU
// match adds one unit, and focus stays on the input so the next scan
// types straight in.
func (m *Model) scanBarcode() tea.Cmd {
	code := strings.TrimSpace(m.search.Value())
	m.search.SetValue("")
	m.query.Search = ""
	m.refilter()
	if code == "" {
		return nil
	}

	for _, p := range m.data.Get().Products {
		if !strings.EqualFold(p.SKU, code) {
			continue
		}
		if m.cart.Quantity(p.ID)+1 > p.Stock {
			return m.notify("insufficient stock for "+p.Name, true)
		}
		m.cart.Add(p, 1, m.session.WholesaleMode)
		if !m.session.CartOpen {
			m.apply(session.OpenCart)
		}
		return m.notify("added "+p.Name, false)
	}
	return m.notify("no product for code "+code, true)
}

func (m *Model) handleCustomerModalKey(cmd Command) (tea.Model, tea.Cmd) {
	customers := m.data.Get().Customers
	switch cmd {
	case CmdUp:
		if m.customerCursor > 0 {
			m.customerCursor--
		}
	case CmdDown:
		if m.customerCursor < len(customers)-1 {
			m.customerCursor++
		}
	case CmdAdd:
		if m.customerCursor < len(customers) {
			m.customerID = customers[m.customerCursor].ID
		}
		m.showCustomer = false
		return m, m.notify("customer assigned", false)
	case CmdCustomerModal:
		m.showCustomer = false
	}
	return m, nil
}

// Checkout options form rows, top to bottom.
const (
	rowDiscount = iota
	rowDiscountType
	rowPayment
	rowNotes
	rowCoupon
	checkoutRowCount
)

// openCheckout stages the current overrides into the form; nothing is
// committed until the operator confirms with enter.
func (m *Model) openCheckout() tea.Cmd {
	m.showCheckout = true
	m.checkoutRow = rowDiscount
	m.formType = m.discountType
	m.formPayment = m.payment
	if m.discount.IsZero() {
		m.discountInput.SetValue("")
	} else {
		m.discountInput.SetValue(m.discount.String())
	}
	m.notesInput.SetValue(m.notes)
	m.couponInput.SetValue(m.coupon)
	return m.focusCheckoutRow()
}

func (m *Model) closeCheckout() {
	m.showCheckout = false
	m.discountInput.Blur()
	m.notesInput.Blur()
	m.couponInput.Blur()
}

func (m *Model) focusCheckoutRow() tea.Cmd {
	m.discountInput.Blur()
	m.notesInput.Blur()
	m.couponInput.Blur()
	switch m.checkoutRow {
	case rowDiscount:
		return m.discountInput.Focus()
	case rowNotes:
		return m.notesInput.Focus()
	case rowCoupon:
		return m.couponInput.Focus()
	}
	return nil
}

func (m *Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.applyCheckoutForm()

	case tea.KeyUp:
		if m.checkoutRow > 0 {
			m.checkoutRow--
		}
		return m, m.focusCheckoutRow()
	case tea.KeyDown, tea.KeyTab:
		if m.checkoutRow < checkoutRowCount-1 {
			m.checkoutRow++
		}
		return m, m.focusCheckoutRow()

	case tea.KeyLeft, tea.KeyRight:
		switch m.checkoutRow {
		case rowDiscountType:
			if m.formType == domain.DiscountPercentage {
				m.formType = domain.DiscountFixed
			} else {
				m.formType = domain.DiscountPercentage
			}
		case rowPayment:
			m.formPayment = nextPayment(m.formPayment)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.checkoutRow {
	case rowDiscount:
		m.discountInput, cmd = m.discountInput.Update(msg)
	case rowNotes:
		m.notesInput, cmd = m.notesInput.Update(msg)
	case rowCoupon:
		m.couponInput, cmd = m.couponInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyCheckoutForm() tea.Cmd {
	amount := decimal.Zero
	if text := strings.TrimSpace(m.discountInput.Value()); text != "" {
		parsed, err := decimal.NewFromString(text)
		if err != nil || parsed.IsNegative() {
			// Form stays open for correction.
			return m.notify("invalid discount amount", true)
		}
		amount = parsed
	}

	m.discount = amount
	m.discountType = m.formType
	m.payment = m.formPayment
	m.notes = strings.TrimSpace(m.notesInput.Value())
	m.coupon = strings.TrimSpace(m.couponInput.Value())
	m.closeCheckout()
	return m.notify("checkout options set", false)
}

func nextPayment(p domain.PaymentMethod) domain.PaymentMethod {
	switch p {
	case domain.PaymentCash:
		return domain.PaymentCard
	case domain.PaymentCard:
		return domain.PaymentTransfer
	default:
		return domain.PaymentCash
	}
}

func (m *Model) handleCommand(cmd Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case CmdUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case CmdDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case CmdAdd:
		return m, m.addHighlighted()

	case CmdMinus:
		if m.cursor < len(m.filtered) {
			id := m.filtered[m.cursor].ID
			m.cart.SetQuantity(id, m.cart.Quantity(id)-1)
		}

	case CmdFocusSearch:
		m.searchFocused = true
		return m, m.search.Focus()

	case CmdToggleView:
		m.apply(session.ToggleView)
	case CmdToggleWholesale:
		m.apply(session.ToggleWholesale)
	case CmdToggleBarcode:
		m.apply(session.ToggleBarcode)
	case CmdToggleQuickAdd:
		m.apply(session.ToggleQuickAdd)
		m.persistFlags()
	case CmdToggleCart:
		m.apply(session.ToggleCart)
	case CmdToggleCartFullscreen:
		m.apply(session.ToggleCartFullscreen)
		m.persistFlags()
	case CmdToggleCartCollapsed:
		m.apply(session.ToggleCartCollapsed)
	case CmdTogglePerformance:
		m.apply(session.TogglePerformance)

	case CmdShortcuts:
		m.showShortcuts = !m.showShortcuts
	case CmdCustomerModal:
		m.showCustomer = true
		m.customerCursor = 0
	case CmdCheckout:
		return m, m.openCheckout()

	case CmdRefresh:
		return m, m.loadCatalog()

	case CmdSaveDraft:
		return m, m.saveDraft()
	case CmdRestoreDraft:
		return m, m.restoreDraft()

	case CmdProcessSale:
		if m.checkoutBusy {
			return m, nil
		}
		m.checkoutBusy = true
		return m, m.processSale()

	case CmdClearCart:
		m.cart.Clear()
		m.resetOverrides()
		return m, m.notify("cart cleared", false)
	}

	return m, nil
}

func (m *Model) addHighlighted() tea.Cmd {
	if m.cursor >= len(m.filtered) {
		return nil
	}
	p := m.filtered[m.cursor]
	if m.cart.Quantity(p.ID)+1 > p.Stock {
		return m.notify("insufficient stock for "+p.Name, true)
	}

	m.cart.Add(p, 1, m.session.WholesaleMode)
	if !m.session.CartOpen {
		m.apply(session.OpenCart)
	}
	if m.session.QuickAddMode {
		return nil
	}
	return m.notify("added "+p.Name, false)
}

func (m *Model) saveDraft() tea.Cmd {
	snapshot := domain.CartSnapshot{
		Lines:         m.cart.Lines(),
		Discount:      m.discount,
		DiscountType:  m.discountType,
		Notes:         m.notes,
		CustomerID:    m.customerID,
		WholesaleMode: m.session.WholesaleMode,
	}
	if err := m.drafts.Save(snapshot); err != nil {
		log.Printf("draft save failed: %v", err)
		return m.notify("could not save draft", true)
	}
	return m.notify("draft saved", false)
}

func (m *Model) restoreDraft() tea.Cmd {
	restored, err := m.drafts.Restore(func(snap domain.CartSnapshot) {
		m.cart.Replace(snap.Lines)
		m.discount = snap.Discount
		m.discountType = snap.DiscountType
		m.notes = snap.Notes
		m.customerID = snap.CustomerID
		if m.session.WholesaleMode != snap.WholesaleMode {
			m.apply(session.ToggleWholesale)
		}
	})
	if err != nil {
		log.Printf("draft restore failed: %v", err)
		return m.notify("could not restore draft", true)
	}
	if !restored {
		return m.notify("no draft to restore", true)
	}
	return m.notify("draft restored", false)
}

func (m *Model) apply(a session.Action) {
	m.session = session.Apply(m.session, a, m.now())
}

func (m *Model) persistFlags() {
	if m.flags == nil {
		return
	}
	if err := m.flags.Save(session.Mirror(m.session)); err != nil {
		log.Printf("mirrored flags save failed: %v", err)
	}
}

func (m *Model) refilter() {
	m.filtered = catalog.Filter(m.data.Get().Products, m.query)
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
