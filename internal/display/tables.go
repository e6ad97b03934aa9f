package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/ottoshop/internal/catalog"
	"github.com/hammamikhairi/ottoshop/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e4e4e7")).Padding(0, 1)

func cellStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	s := lipgloss.NewStyle().Padding(0, 1)
	if col > 0 {
		s = s.Foreground(lipgloss.Color("#fde68a")).Align(lipgloss.Right)
	}
	return s
}

// RenderCatalog draws the price table: one row per item, one column per
// store.
func RenderCatalog(c *catalog.Catalog) string {
	headers := []string{"item"}
	for _, s := range domain.Stores {
		headers = append(headers, s.String())
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(sepStyle).
		StyleFunc(cellStyle).
		Headers(headers...)

	for _, name := range c.Items() {
		row := []string{name}
		for _, s := range domain.Stores {
			p, _ := c.Price(s, name)
			row = append(row, Money(p))
		}
		t.Row(row...)
	}
	return t.Render()
}

// RenderQuote draws one store's priced items and total.
func RenderQuote(q domain.StoreQuote) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(sepStyle).
		StyleFunc(cellStyle).
		Headers(q.Store.String(), "price")

	for _, it := range q.Items {
		name := it.Name
		if !it.Found {
			name += " (est.)"
		}
		t.Row(name, Money(it.Price))
	}
	t.Row("total", Money(q.Total))

	return t.Render() + "\n" + secondaryStyle.Render(fmt.Sprintf("delivery in %s", q.DeliveryFormatted()))
}
