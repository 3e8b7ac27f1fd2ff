package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"omniorder/internal/api"
	"omniorder/internal/cart"
	"omniorder/internal/checkout"
	"omniorder/internal/config"
	"omniorder/internal/kds"
	"omniorder/internal/models"
	"omniorder/internal/monitoring"
	"omniorder/internal/poller"
	"omniorder/internal/session"
	"omniorder/internal/storage"
	"omniorder/internal/theme"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1a1a1a")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the full application state for the storefront and kitchen
// terminal client.
type Model struct {
	cfg     config.Config
	client  *api.Client
	cart    *cart.Store
	session *session.Session
	kitchen *kds.Client

	mainMenu     list.Model
	menuList     list.Model
	kitchenTable table.Model
	nameInput    textinput.Model
	tableInput   textinput.Model
	notesInput   textinput.Model
	spinner      spinner.Model

	currentView string
	storeName   string
	currency    string
	err         string
	notice      string

	// item being configured before it enters the cart
	configItem  models.MenuItem
	configGroup int
	configMods  []models.OrderModifier

	activeOrder *models.Order
	pollCancel  context.CancelFunc

	shiftStarted bool
	kitchenRows  []string
	laneSummary  string
	connState    kds.ConnState

	// events carries poller and kitchen callbacks into the update loop
	events chan tea.Msg
}

// item represents a main menu entry
type item struct {
	title, desc string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// menuEntry is a sellable item in the browse list
type menuEntry struct {
	item     models.MenuItem
	category string
	currency string
}

func (e menuEntry) FilterValue() string { return e.item.Name }
func (e menuEntry) Title() string {
	return fmt.Sprintf("%s  %s", e.item.Name, money(e.item.Price, e.currency))
}
func (e menuEntry) Description() string {
	if e.item.Description != "" {
		return e.category + " · " + e.item.Description
	}
	return e.category
}

// optionEntry is a modifier choice in the configure view
type optionEntry struct {
	opt      models.ModifierOption
	currency string
}

func (e optionEntry) FilterValue() string { return e.opt.Name }
func (e optionEntry) Title() string {
	if e.opt.Price == 0 {
		return e.opt.Name
	}
	return fmt.Sprintf("%s  +%s", e.opt.Name, money(e.opt.Price, e.currency))
}
func (e optionEntry) Description() string { return "" }

func money(minor int64, currency string) string {
	symbol := "$"
	if currency == "EUR" {
		symbol = "€"
	}
	return fmt.Sprintf("%s%d.%02d", symbol, minor/100, minor%100)
}

func initialModel(cfg config.Config, client *api.Client, cartStore *cart.Store, sess *session.Session, kitchen *kds.Client) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Browse Menu", desc: "View the menu and build your order"},
		item{title: "Cart", desc: "Review and edit your cart"},
		item{title: "Order Status", desc: "Track your active order"},
		item{title: "Kitchen Display", desc: "Staff: live ticket board"},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "OmniOrder"

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "Menu"

	columns := []table.Column{
		{Title: "Ticket", Width: 8},
		{Title: "Customer", Width: 18},
		{Title: "Status", Width: 12},
		{Title: "Age", Width: 8},
	}
	kitchenTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 64
	name.Width = 30

	tbl := textinput.New()
	tbl.Placeholder = "Table number (optional)"
	tbl.CharLimit = 8
	tbl.Width = 30

	notes := textinput.New()
	notes.Placeholder = "Notes for the kitchen (optional)"
	notes.CharLimit = 120
	notes.Width = 40

	return Model{
		cfg:          cfg,
		client:       client,
		cart:         cartStore,
		session:      sess,
		kitchen:      kitchen,
		mainMenu:     mainMenu,
		menuList:     menuList,
		kitchenTable: kitchenTable,
		nameInput:    name,
		tableInput:   tbl,
		notesInput:   notes,
		spinner:      s,
		currentView:  "main",
		currency:     "USD",
		events:       make(chan tea.Msg, 64),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tea.EnterAltScreen, fetchConfig(m.client), waitForEvent(m.events)}
	// Resume tracking an order placed in an earlier run.
	if id := m.cart.ActiveOrderID(); id != "" {
		cmds = append(cmds, fetchActiveOrder(m.client, id))
	}
	return tea.Batch(cmds...)
}

// Messages

type configMsg struct{ cfg models.TenantConfig }

type menuMsg struct{ categories []models.Category }

type orderPlacedMsg struct{ order models.Order }

type activeOrderMsg struct{ order models.Order }

type orderStatusMsg struct{ order models.Order }

type orderGoneMsg struct{}

type kitchenUpdateMsg struct{ alert string }

type connMsg struct{ state kds.ConnState }

type shiftStartedMsg struct{}

type errMsg struct{ err string }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.menuList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case configMsg:
		m.storeName = msg.cfg.Name
		if msg.cfg.Currency != "" {
			m.currency = msg.cfg.Currency
		}
		tokens := theme.Apply(msg.cfg)
		titleStyle = titleStyle.Background(lipgloss.Color(tokens["--color-primary"]))
		if m.storeName != "" {
			m.mainMenu.Title = m.storeName
		}
		return m, nil

	case menuMsg:
		m.menuList.Title = "Menu"
		var entries []list.Item
		for _, cat := range msg.categories {
			for _, it := range cat.Items {
				entries = append(entries, menuEntry{item: it, category: cat.Name, currency: m.currency})
			}
		}
		m.menuList.SetItems(entries)
		return m, nil

	case orderPlacedMsg:
		m.activeOrder = &msg.order
		m.currentView = "status"
		m.err = ""
		m.notice = fmt.Sprintf("Order placed! Your ticket number is %d.", msg.order.TicketNumber)
		return m, m.startPolling(msg.order.ID)

	case activeOrderMsg:
		m.activeOrder = &msg.order
		return m, m.startPolling(msg.order.ID)

	case orderStatusMsg:
		m.activeOrder = &msg.order
		return m, waitForEvent(m.events)

	case orderGoneMsg:
		m.activeOrder = nil
		m.cart.SetActiveOrderID("")
		if m.currentView == "status" {
			m.notice = "Your order is no longer tracked."
		}
		return m, waitForEvent(m.events)

	case kitchenUpdateMsg:
		if msg.alert != "" {
			m.notice = msg.alert
		}
		m.refreshKitchenTable()
		return m, waitForEvent(m.events)

	case connMsg:
		m.connState = msg.state
		return m, waitForEvent(m.events)

	case shiftStartedMsg:
		m.shiftStarted = true
		m.err = ""
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateActiveComponent(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.currentView == "main" {
			return m, tea.Quit
		}

	case "esc":
		switch m.currentView {
		case "configure", "notes":
			m.currentView = "menu"
			return m, nil
		case "checkout_name", "checkout_table":
			m.currentView = "cart"
			return m, nil
		case "main":
			return m, nil
		default:
			m.currentView = "main"
			m.err = ""
			return m, nil
		}

	case "enter":
		return m.handleEnter()

	case "c":
		if m.currentView == "menu" {
			m.currentView = "cart"
			return m, nil
		}

	case "x":
		if m.currentView == "cart" {
			if lines := m.cart.Lines(); len(lines) > 0 {
				m.cart.Remove(lines[len(lines)-1].LineID)
			}
			return m, nil
		}

	case "s":
		if m.currentView == "kitchen" && !m.shiftStarted {
			return m, m.startShift()
		}
	}

	return m.updateActiveComponent(msg)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case "main":
		selected, ok := m.mainMenu.SelectedItem().(item)
		if !ok {
			return m, nil
		}
		switch selected.title {
		case "Exit":
			return m, tea.Quit
		case "Browse Menu":
			m.currentView = "menu"
			return m, fetchMenu(m.client)
		case "Cart":
			m.currentView = "cart"
		case "Order Status":
			m.currentView = "status"
		case "Kitchen Display":
			m.currentView = "kitchen"
			m.refreshKitchenTable()
		}
		return m, nil

	case "menu":
		entry, ok := m.menuList.SelectedItem().(menuEntry)
		if !ok {
			return m, nil
		}
		m.configItem = entry.item
		m.configGroup = 0
		m.configMods = nil
		if len(entry.item.ModifierGroups) > 0 {
			m.currentView = "configure"
			m.showConfigGroup()
		} else {
			m.currentView = "notes"
			m.notesInput.SetValue("")
			m.notesInput.Focus()
		}
		return m, nil

	case "configure":
		entry, ok := m.menuList.SelectedItem().(optionEntry)
		if ok {
			m.configMods = append(m.configMods, models.OrderModifier{
				OptionID:   entry.opt.ID,
				OptionName: entry.opt.Name,
				Price:      entry.opt.Price,
			})
		}
		m.configGroup++
		if m.configGroup < len(m.configItem.ModifierGroups) {
			m.showConfigGroup()
			return m, nil
		}
		m.currentView = "notes"
		m.notesInput.SetValue("")
		m.notesInput.Focus()
		return m, nil

	case "notes":
		m.cart.Add(m.configItem, m.configMods, m.notesInput.Value())
		m.notesInput.Blur()
		m.currentView = "menu"
		m.notice = m.configItem.Name + " added to cart"
		return m, fetchMenu(m.client)

	case "cart":
		if m.cart.Count() == 0 {
			m.err = "Your cart is empty."
			return m, nil
		}
		m.currentView = "checkout_name"
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.err = ""
		return m, nil

	case "checkout_name":
		if m.nameInput.Value() == "" {
			m.err = "Please tell us your name."
			return m, nil
		}
		m.nameInput.Blur()
		m.currentView = "checkout_table"
		m.tableInput.SetValue("")
		m.tableInput.Focus()
		m.err = ""
		return m, nil

	case "checkout_table":
		m.tableInput.Blur()
		return m, placeOrder(m.client, m.cart, m.nameInput.Value(), m.tableInput.Value())

	case "kitchen":
		if !m.shiftStarted {
			return m, nil
		}
		cursor := m.kitchenTable.Cursor()
		if cursor >= 0 && cursor < len(m.kitchenRows) {
			m.kitchen.Advance(context.Background(), m.kitchenRows[cursor])
			m.refreshKitchenTable()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "menu", "configure":
		m.menuList, cmd = m.menuList.Update(msg)
	case "notes":
		m.notesInput, cmd = m.notesInput.Update(msg)
	case "checkout_name":
		m.nameInput, cmd = m.nameInput.Update(msg)
	case "checkout_table":
		m.tableInput, cmd = m.tableInput.Update(msg)
	case "kitchen":
		m.kitchenTable, cmd = m.kitchenTable.Update(msg)
	}
	return m, cmd
}

// showConfigGroup repoints the browse list at the current modifier group's
// options.
func (m *Model) showConfigGroup() {
	group := m.configItem.ModifierGroups[m.configGroup]
	entries := make([]list.Item, 0, len(group.Options))
	for _, opt := range group.Options {
		entries = append(entries, optionEntry{opt: opt, currency: m.currency})
	}
	m.menuList.SetItems(entries)
	m.menuList.Title = m.configItem.Name + ": " + group.Name
}

// refreshKitchenTable rebuilds the board rows lane by lane, oldest ticket
// first within each lane.
func (m *Model) refreshKitchenTable() {
	var rows []table.Row
	var ids []string
	counts := make([]string, 0, len(models.ActiveStatuses()))
	for _, lane := range models.ActiveStatuses() {
		orders := m.kitchen.Board().Lane(lane)
		counts = append(counts, fmt.Sprintf("%s %d", lane, len(orders)))
		for _, o := range orders {
			age := time.Since(o.CreatedAt).Round(time.Second)
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", o.TicketNumber),
				o.CustomerName,
				string(o.Status),
				age.String(),
			})
			ids = append(ids, o.ID)
		}
	}
	m.kitchenTable.SetRows(rows)
	m.kitchenRows = ids
	m.laneSummary = strings.Join(counts, "  ")
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "menu", "configure":
		help := "\nPress 'enter' to select, 'c' for cart, 'esc' to go back\n"
		return docStyle.Render(m.menuList.View() + m.footer(help))
	case "notes":
		return docStyle.Render(titleStyle.Render(m.configItem.Name) + "\n\n" +
			m.notesInput.View() + m.footer("\nPress 'enter' to add to cart, 'esc' to cancel\n"))
	case "cart":
		return docStyle.Render(m.cartView())
	case "checkout_name":
		return docStyle.Render(titleStyle.Render("Checkout") + "\n\n" +
			m.nameInput.View() + m.footer("\nPress 'enter' to continue, 'esc' to go back\n"))
	case "checkout_table":
		return docStyle.Render(titleStyle.Render("Checkout") + "\n\n" +
			m.tableInput.View() + m.footer("\nPress 'enter' to place your order, 'esc' to go back\n"))
	case "status":
		return docStyle.Render(m.statusView())
	case "kitchen":
		return docStyle.Render(m.kitchenView())
	default:
		return m.spinner.View() + " Loading..."
	}
}

func (m Model) footer(help string) string {
	out := help
	if m.notice != "" {
		out += successStyle.Render(m.notice) + "\n"
	}
	if m.err != "" {
		out += errorStyle.Render(m.err) + "\n"
	}
	return out
}

func (m Model) cartView() string {
	view := titleStyle.Render("Your Cart") + "\n\n"
	lines := m.cart.Lines()
	if len(lines) == 0 {
		view += "Your cart is empty.\n"
	}
	for i, l := range lines {
		view += fmt.Sprintf("%d. %s x%d  %s\n", i+1, l.Name, l.Qty, money(l.Subtotal(), m.currency))
		for _, mod := range l.Modifiers {
			view += dimStyle.Render("   + "+mod.OptionName) + "\n"
		}
		if l.Notes != "" {
			view += dimStyle.Render("   note: "+l.Notes) + "\n"
		}
	}
	view += fmt.Sprintf("\nTotal: %s\n", money(m.cart.Total(), m.currency))
	view += m.footer("\nPress 'enter' to check out, 'x' to remove the last line, 'esc' to go back\n")
	return view
}

func (m Model) statusView() string {
	view := titleStyle.Render("Order Status") + "\n\n"
	if m.activeOrder == nil {
		view += "No active order.\n"
		view += m.footer("\nPress 'esc' to go back\n")
		return view
	}

	o := m.activeOrder
	view += fmt.Sprintf("Ticket #%d for %s\n\n", o.TicketNumber, o.CustomerName)
	for _, s := range models.Statuses() {
		marker := "○"
		if s == o.Status {
			marker = "●"
		}
		view += fmt.Sprintf(" %s %s\n", marker, s)
	}
	if o.Status.Terminal() {
		view += "\n" + successStyle.Render("Your order is complete. Enjoy!") + "\n"
	}
	view += m.footer("\nPress 'esc' to go back\n")
	return view
}

func (m Model) kitchenView() string {
	view := titleStyle.Render("Kitchen Display") + "  "
	switch m.connState {
	case kds.StateConnected:
		view += successStyle.Render("live")
	case kds.StateConnecting:
		view += m.spinner.View() + " connecting"
	default:
		view += errorStyle.Render("offline")
	}
	view += "\n\n"

	if !m.shiftStarted {
		view += "The ticket board is idle.\n"
		view += m.footer("\nPress 's' to start your shift, 'esc' to go back\n")
		return view
	}

	view += dimStyle.Render(m.laneSummary) + "\n\n"
	view += m.kitchenTable.View() + "\n"
	view += m.footer("\nPress 'enter' to advance the selected ticket, 'esc' to go back\n")
	return view
}

// Commands

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

func fetchConfig(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cfg, err := client.GetConfig(ctx)
		if err != nil {
			return errMsg{err: fmt.Sprintf("Could not load store info: %v", err)}
		}
		return configMsg{cfg: *cfg}
	}
}

func fetchMenu(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		categories, err := client.GetMenu(ctx)
		if err != nil {
			return errMsg{err: fmt.Sprintf("Could not load the menu: %v", err)}
		}
		return menuMsg{categories: categories}
	}
}

func fetchActiveOrder(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		order, err := client.GetOrder(ctx, id)
		if err != nil {
			// Stale reference from an earlier run; polling will clear it.
			return orderGoneMsg{}
		}
		return activeOrderMsg{order: *order}
	}
}

func placeOrder(client *api.Client, cartStore *cart.Store, name, tableNumber string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		order, err := checkout.Submit(ctx, client, cartStore, name, tableNumber)
		if err != nil {
			// Submit leaves the cart untouched on failure; the customer can
			// retry.
			return errMsg{err: err.Error()}
		}
		return orderPlacedMsg{order: *order}
	}
}

// startPolling tracks the active order, replacing any earlier poll loop.
func (m *Model) startPolling(orderID string) tea.Cmd {
	if m.pollCancel != nil {
		m.pollCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.pollCancel = cancel

	p := poller.New(m.client, m.cfg.Storefront.PollInterval)
	events := m.events
	p.OnUpdate = func(o models.Order) {
		select {
		case events <- orderStatusMsg{order: o}:
		default:
		}
	}
	p.OnGone = func() {
		select {
		case events <- orderGoneMsg{}:
		default:
		}
	}
	go p.Run(ctx, orderID)
	return nil
}

// startShift authenticates if needed and opens the kitchen event stream.
func (m Model) startShift() tea.Cmd {
	client := m.client
	sess := m.session
	kitchen := m.kitchen
	events := m.events

	return func() tea.Msg {
		if sess.Token() == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			demo, err := client.GenerateDemoSession(ctx)
			if err != nil {
				return errMsg{err: fmt.Sprintf("Could not sign in: %v", err)}
			}
			sess.SetDemoSession(demo.AccessToken, session.Profile{
				Name:    demo.User.Name,
				Email:   demo.User.Email,
				Subject: demo.User.Subject,
			})
		}

		kitchen.OnNewOrder = func(o models.Order) {
			select {
			case events <- kitchenUpdateMsg{alert: fmt.Sprintf("New ticket #%d for %s", o.TicketNumber, o.CustomerName)}:
			default:
			}
		}
		kitchen.OnStateChange = func(s kds.ConnState) {
			select {
			case events <- connMsg{state: s}:
			default:
			}
			select {
			case events <- kitchenUpdateMsg{}:
			default:
			}
		}
		kitchen.Start(context.Background())
		return shiftStartedMsg{}
	}
}

func startMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET(cfg.Path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server := &http.Server{Addr: cfg.Addr, Handler: router}
	log.Printf("metrics listening on %s%s", cfg.Addr, cfg.Path)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("metrics server error: %v", err)
	}
}

func main() {
	configPath := flag.StringP("config", "c", "", "path to config file")
	apiURL := flag.String("api", "", "backend base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omni: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "omni: state dir: %v\n", err)
		os.Exit(1)
	}
	localStore, err := storage.Open(filepath.Join(cfg.StateDir, "local.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "omni: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.APIURL)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if !client.Ping(pingCtx) {
		fmt.Fprintf(os.Stderr, "Warning: backend at %s is not reachable.\n", cfg.APIURL)
	}
	cancelPing()

	cartStore := cart.New(localStore)
	sess := session.Load(storage.OpenEphemeral())
	client.SetTokenSource(sess.Token)

	var metrics *monitoring.KitchenMetrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics = monitoring.NewKitchenMetrics(registry)
		go startMetricsServer(cfg.Metrics, registry)
	}

	kitchen := kds.NewClient(client, metrics)
	kitchen.ReconnectDelay = cfg.Kitchen.ReconnectDelay
	defer kitchen.Stop()

	p := tea.NewProgram(initialModel(cfg, client, cartStore, sess, kitchen))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
