package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the storefront reacts to. Bindings are enabled
// per tab so the help bar only shows what applies.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Back      key.Binding
	AddCart   key.Binding
	Wishlist  key.Binding
	Search    key.Binding
	Sort      key.Binding
	Refresh   key.Binding
	Increment key.Binding
	Decrement key.Binding
	Remove    key.Binding
	Move      key.Binding
	ClearCart key.Binding
	Checkout  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:   key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		AddCart:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Wishlist:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wishlist")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Increment: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "qty up")),
		Decrement: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "qty down")),
		Remove:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to cart")),
		ClearCart: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear cart")),
		Checkout:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkout")),
	}
}

// forTab enables only the bindings that act on t.
func (k keyMap) forTab(t tab) keyMap {
	onProducts := t == tabProducts
	onCart := t == tabCart
	onWishlist := t == tabWishlist

	k.Open.SetEnabled(t == tabCategories || onProducts)
	k.Back.SetEnabled(false)
	k.AddCart.SetEnabled(onProducts)
	k.Wishlist.SetEnabled(onProducts)
	k.Search.SetEnabled(onProducts)
	k.Sort.SetEnabled(onProducts)
	k.Refresh.SetEnabled(onProducts)
	k.Increment.SetEnabled(onCart)
	k.Decrement.SetEnabled(onCart)
	k.Remove.SetEnabled(onCart || onWishlist)
	k.Move.SetEnabled(onWishlist)
	k.ClearCart.SetEnabled(onCart)
	k.Checkout.SetEnabled(onCart)
	return k
}

// forDetail enables the bindings of the product detail pane.
func (k keyMap) forDetail() keyMap {
	k = k.forTab(tabProducts)
	k.Open.SetEnabled(false)
	k.Search.SetEnabled(false)
	k.Sort.SetEnabled(false)
	k.Refresh.SetEnabled(false)
	k.Back.SetEnabled(true)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextTab, k.Open, k.Back, k.AddCart, k.Wishlist, k.Search,
		k.Increment, k.Decrement, k.Remove, k.Move, k.Checkout, k.Help, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Open, k.Back, k.Search, k.Sort, k.Refresh},
		{k.AddCart, k.Wishlist, k.Move},
		{k.Increment, k.Decrement, k.Remove, k.ClearCart, k.Checkout},
		{k.Help, k.Quit},
	}
}
