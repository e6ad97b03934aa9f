// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps a basket status bar and an input prompt at the
// bottom of the terminal. All application output is printed above the
// rendered area via Program.Println / Printf, so concurrent writes never
// garble the display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	barValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	barDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate of the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))

	// ── Store cards ──

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1).
			Width(cardWidth)

	cardBestStyle = cardStyle.
			BorderForeground(lipgloss.Color("#bbf7d0"))

	storeNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e4e4e7"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	cheapBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bbf7d0")).
			Padding(0, 1)

	fastBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bae6fd")).
			Padding(0, 1)

	orderStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#bbf7d0")).
			Padding(0, 2)
)

const (
	cardWidth = 22
	prompt    = "shop> "
)

// Money formats a price in pounds.
func Money(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println], [UI.Printf], and read from [UI.InputChan] at any
// time after [UI.WaitReady] returns.
type UI struct {
	program  *tea.Program
	inputCh  chan string
	readyCh  chan struct{}
	quitCh   chan struct{}
	store    domain.ConversationStore
	tracked  atomic.Pointer[string]
	renderer *glamour.TermRenderer
	done     atomic.Bool
}

// NewUI creates the display. The status bar reads the tracked
// conversation from store. Call Run() to start.
func NewUI(store domain.ConversationStore) *UI {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(80),
	)
	return &UI{
		store:    store,
		renderer: r,
		inputCh:  make(chan string, 16),
		readyCh:  make(chan struct{}),
		quitCh:   make(chan struct{}),
	}
}

// Track sets which conversation the status bar follows.
func (u *UI) Track(conversationID string) {
	u.tracked.Store(&conversationID)
}

// Println prints a line above the prompt. Thread-safe. If the program
// hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints a conversational assistant line.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintMarkdown renders an assistant reply. Agent replies are often
// markdown lists of prices; plain text passes through unchanged.
func (u *UI) PrintMarkdown(text string) {
	if u.renderer == nil {
		u.PrintChat(text)
		return
	}
	out, err := u.renderer.Render(text)
	if err != nil {
		u.PrintChat(text)
		return
	}
	u.Println(strings.TrimRight(out, "\n"))
}

// PrintInstruction prints main body text.
func (u *UI) PrintInstruction(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed line into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("shop") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// PrintComparisons prints one card per store.
func (u *UI) PrintComparisons(set domain.ComparisonSet) {
	if len(set) == 0 {
		return
	}
	u.Println(RenderComparisons(set, termWidth()))
	u.PrintHint("Choose with a store name, a number, \"cheapest\" or \"fastest\".")
}

// PrintBasket prints the basket contents.
func (u *UI) PrintBasket(items []string) {
	if len(items) == 0 {
		u.PrintHint("Your basket is empty.")
		return
	}
	u.PrintInstruction(fmt.Sprintf("Basket (%d): %s", len(items), strings.Join(items, ", ")))
}

// PrintOrder prints a confirmed order.
func (u *UI) PrintOrder(o *domain.Order) {
	if o == nil {
		return
	}
	u.Println(RenderOrder(o))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct; styled
	// prompts add ANSI bytes its offset calculations don't expect.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Placeholder = "bread, milk and eggs"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	m := model{
		status:  u.status,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// status loads the tracked conversation for the status bar.
func (u *UI) status() *domain.Conversation {
	id := u.tracked.Load()
	if id == nil || u.store == nil {
		return nil
	}
	conv, err := u.store.Load(context.Background(), *id)
	if err != nil {
		return nil
	}
	return conv
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	status  func() *domain.Conversation
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	conv    *domain.Conversation
	width   int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd, outside Update, so Println can't
				// deadlock on the message loop.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		if m.status != nil {
			m.conv = m.status()
		}
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(titleStr(m.conv)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	if parts := statusParts(m.conv); len(parts) > 0 {
		b.WriteString(renderBar(parts, m.width))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// ── Rendering ────────────────────────────────────────────────────

// statusParts describes the conversation for the status bar.
func statusParts(conv *domain.Conversation) []string {
	if conv == nil {
		return nil
	}
	if conv.Stage == domain.StageConfirmed && conv.Order != nil {
		return []string{barDoneStyle.Render("Order " + conv.Order.OrderNumber + " confirmed")}
	}

	var parts []string
	if n := len(conv.Basket); n > 0 {
		parts = append(parts, labelStyle.Render("Basket: ")+barValueStyle.Render(fmt.Sprintf("%d item(s)", n)))
	}
	if conv.SelectedStore != domain.StoreUnknown {
		sel := fmt.Sprintf("%s %s", conv.SelectedStore, Money(conv.SelectedTotal))
		if conv.DeliveryHours > 0 {
			sel += " · " + domain.FormatHours(conv.DeliveryHours)
		}
		parts = append(parts, labelStyle.Render("Store: ")+barValueStyle.Render(sel))
	} else if q, ok := conv.Comparisons.Cheapest(); ok {
		parts = append(parts, labelStyle.Render("Cheapest: ")+barValueStyle.Render(q.Store.String()+" "+Money(q.Total)))
	}
	if conv.Stage == domain.StageAwaitingAddress {
		parts = append(parts, labelStyle.Render("waiting for address"))
	}
	return parts
}

func renderBar(parts []string, width int) string {
	if width <= 0 {
		width = 80
	}
	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	return barBg.Width(width).Render(content)
}

func titleStr(conv *domain.Conversation) string {
	switch {
	case conv == nil:
		return "OttoShop"
	case conv.Order != nil:
		return "OttoShop · order " + conv.Order.OrderNumber
	case conv.SelectedStore != domain.StoreUnknown:
		return fmt.Sprintf("OttoShop · %s %s", conv.SelectedStore, Money(conv.SelectedTotal))
	case len(conv.Basket) > 0:
		return fmt.Sprintf("OttoShop · %d item(s)", len(conv.Basket))
	}
	return "OttoShop"
}

// RenderComparisons lays out one numbered card per store, side by side
// when width allows, with cheapest and fastest badges.
func RenderComparisons(set domain.ComparisonSet, width int) string {
	cards := make([]string, 0, len(set))
	for i, r := range set.Ranked() {
		cards = append(cards, renderCard(i+1, r))
	}

	outer := cardWidth + 2
	if width >= outer*len(cards) {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderCard(n int, r domain.RankedQuote) string {
	lines := []string{
		storeNameStyle.Render(fmt.Sprintf("%d. %s", n, r.Store)),
		priceStyle.Render(Money(r.Total)),
		secondaryStyle.Render("delivery " + domain.FormatHours(r.DeliveryHours)),
	}

	priced := 0
	for _, it := range r.Items {
		if it.Found {
			priced++
		}
	}
	if len(r.Items) > 0 {
		lines = append(lines, secondaryStyle.Render(fmt.Sprintf("%d/%d priced", priced, len(r.Items))))
	}

	var badges []string
	if r.Cheapest {
		badges = append(badges, cheapBadge.Render("cheapest"))
	}
	if r.Fastest {
		badges = append(badges, fastBadge.Render("fastest"))
	}
	if len(badges) > 0 {
		lines = append(lines, strings.Join(badges, " "))
	}

	style := cardStyle
	if r.Cheapest || r.Fastest {
		style = cardBestStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderOrder draws the confirmation box for an order.
func RenderOrder(o *domain.Order) string {
	lines := []string{
		storeNameStyle.Render("Order " + o.OrderNumber + " confirmed"),
		fmt.Sprintf("%s · %d item(s) · %s", o.Store, len(o.Items), Money(o.Total)),
		secondaryStyle.Render("Delivering to " + o.Address),
	}
	return orderStyle.Render(strings.Join(lines, "\n"))
}
