package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/storefront"
)

const (
	cursorMark  = "› "
	defaultRows = 20
)

// View renders the whole screen.
func (m Model) View() string {
	sections := []string{m.renderHeader(), m.renderBody()}
	if toast := styles.RenderToast(m.toasts.Current()); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, styles.HelpStyle.Render(m.help.View(m.activeKeys())))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// bodyHeight is the number of rows left for the active tab.
func (m Model) bodyHeight() int {
	if m.height == 0 {
		return defaultRows
	}
	// header, blank, toast, help
	return m.height - 4
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.UnsetMarginBottom().Render(styles.IconStore + " Storefront")

	tabs := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, tabNames[t])
		switch t {
		case tabCart:
			label += fmt.Sprintf(" (%d)", m.snapshot.CartCount())
		case tabWishlist:
			label += fmt.Sprintf(" (%d)", len(m.snapshot.Wishlist))
		}
		if t == m.tab {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, "  "}, tabs...)...) + "\n"
}

func (m Model) renderBody() string {
	if m.state == stateCheckout && m.checkout != nil {
		return m.renderCheckout()
	}
	if m.state == stateDetail {
		return m.detail.View()
	}

	switch m.tab {
	case tabCategories:
		return m.renderCategories()
	case tabProducts:
		return m.renderProducts()
	case tabCart:
		return m.renderCart()
	case tabWishlist:
		return m.renderWishlist()
	case tabOrders:
		return m.renderOrders()
	default:
		return ""
	}
}

// window returns the [start, end) slice of n rows that keeps cursor visible
// within rows.
func window(cursor, n, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := max(cursor-rows/2, 0)
	end := start + rows
	if end > n {
		end = n
		start = n - rows
	}
	return start, end
}

func (m Model) renderRows(t tab, rows []string) string {
	start, end := window(m.cursors[t], len(rows), m.bodyHeight()-2)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i == m.cursors[t] {
			b.WriteString(styles.SelectedStyle.Render(cursorMark + rows[i]))
		} else {
			b.WriteString("  " + rows[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderCategories() string {
	rows := make([]string, len(m.categories))
	for i, c := range m.categories {
		cached := ""
		if m.app.Catalog.IsCached(c.Slug) {
			cached = styles.MutedStyle.Render(" " + styles.IconSuccess)
		}
		rows[i] = styles.CategoryNameStyle.Render(styles.IconCategory+" "+c.Name) + cached +
			"  " + styles.MutedStyle.Render(c.Description)
	}
	return m.renderRows(tabCategories, rows)
}

func (m Model) renderProducts() string {
	if m.category.Slug == "" {
		return styles.EmptyStateStyle.Render("Pick a category to browse its products.")
	}

	header := styles.OrderHeaderStyle.Render(m.category.Name)
	if s := sortCycle[m.sort]; s != catalog.SortNone {
		header += styles.MutedStyle.Render("  sorted by " + string(s))
	}
	if m.state == stateSearching || m.search.Value() != "" {
		header += "  " + m.search.View()
	}
	header += "\n"

	if m.loading {
		return header + m.spinner.View() + " Loading products..."
	}

	products := m.visibleProducts()
	if len(products) == 0 {
		return header + styles.EmptyStateStyle.Render("No products found.")
	}

	rows := make([]string, len(products))
	for i, p := range products {
		marks := ""
		if m.snapshot.InWishlist(p.ID) {
			marks += " " + styles.IconHeart
		}
		if item, ok := m.snapshot.CartItem(p.ID); ok {
			marks += fmt.Sprintf(" %s %d", styles.IconCart, item.Quantity)
		}
		rows[i] = fmt.Sprintf("%-40s %s %s%s",
			truncate(p.Title, 40),
			styles.PriceStyle.Render(fmt.Sprintf("%10s", storefront.FormatPrice(p.Price))),
			styles.RatingStyle.Render(styles.IconStar+" "+storefront.FormatRating(p)),
			marks,
		)
	}
	return header + m.renderRows(tabProducts, rows)
}

func (m Model) renderCart() string {
	if len(m.snapshot.Cart) == 0 {
		return styles.EmptyStateStyle.Render("Your cart is empty.")
	}

	totals := storefront.ComputeTotals(m.snapshot.Cart)
	rows := make([]string, len(totals.Lines))
	for i, line := range totals.Lines {
		rows[i] = fmt.Sprintf("%-40s %3d × %10s = %s",
			truncate(line.Title, 40),
			line.Quantity,
			storefront.FormatAmount(line.Price),
			styles.PriceStyle.Render(storefront.FormatAmount(line.Total)),
		)
	}

	summary := fmt.Sprintf("%s %s   %s %s",
		styles.TotalLabelStyle.Render("Items"),
		styles.TotalValueStyle.Render(fmt.Sprint(totals.Items)),
		styles.TotalLabelStyle.Render("Total"),
		styles.TotalValueStyle.Render(storefront.FormatAmount(totals.Total)),
	)
	return m.renderRows(tabCart, rows) + "\n" + summary
}

func (m Model) renderWishlist() string {
	if len(m.snapshot.Wishlist) == 0 {
		return styles.EmptyStateStyle.Render("Your wishlist is empty.")
	}

	rows := make([]string, len(m.snapshot.Wishlist))
	for i, p := range m.snapshot.Wishlist {
		rows[i] = fmt.Sprintf("%-40s %s  %s",
			truncate(p.Title, 40),
			styles.PriceStyle.Render(fmt.Sprintf("%10s", storefront.FormatPrice(p.Price))),
			styles.MutedStyle.Render(p.Category.Name),
		)
	}
	return m.renderRows(tabWishlist, rows)
}

func (m Model) renderOrders() string {
	if len(m.snapshot.Orders) == 0 {
		return styles.EmptyStateStyle.Render("No orders yet.")
	}

	rows := make([]string, len(m.snapshot.Orders))
	for i, o := range m.snapshot.Orders {
		marker := ""
		if o.ID == m.lastOrder {
			marker = " " + styles.BadgeStyle.Render("new")
		}
		rows[i] = fmt.Sprintf("%s %s  %s  %d items  %s%s",
			styles.IconPackage,
			styles.OrderHeaderStyle.Render(shortID(o.ID)),
			o.Date.Local().Format(time.DateTime),
			o.ItemCount(),
			styles.PriceStyle.Render(storefront.FormatPrice(o.Total)),
			marker,
		)
	}
	return m.renderRows(tabOrders, rows)
}

func (m Model) renderCheckout() string {
	totals := storefront.ComputeTotals(m.snapshot.Cart)
	header := fmt.Sprintf("%s %s  %s\n",
		styles.OrderHeaderStyle.Render(styles.IconCart+" Checkout"),
		styles.TotalLabelStyle.Render(fmt.Sprintf("%d items", totals.Items)),
		styles.TotalValueStyle.Render(storefront.FormatAmount(totals.Total)),
	)
	return header + m.checkout.form.View()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
