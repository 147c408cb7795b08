// Package cart holds a customer's selections before checkout. A cart is
// always bound to one restaurant table; totals are derived on every read.
package cart

import (
	"github.com/shopspring/decimal"
)

type Scope struct {
	RestaurantID uint `json:"restaurantId"`
	TableID      uint `json:"tableId"`
}

// Item is the menu item snapshot used to display a line.
type Item struct {
	MenuItemID uint            `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageUrl   string          `json:"imageUrl,omitempty"`
}

type Line struct {
	Item
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Scope Scope  `json:"scope"`
	Lines []Line `json:"lines"`
}

func New(scope Scope) *Cart {
	return &Cart{Scope: scope, Lines: []Line{}}
}

func (c *Cart) index(menuItemID uint) int {
	for i, l := range c.Lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// AddItem bumps the quantity of an existing line or appends one at quantity 1.
// The snapshot is refreshed so the cart shows the latest name and price.
func (c *Cart) AddItem(item Item) {
	if i := c.index(item.MenuItemID); i >= 0 {
		c.Lines[i].Item = item
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, Line{Item: item, Quantity: 1})
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line.
// It reports whether the item was in the cart.
func (c *Cart) UpdateQuantity(menuItemID uint, quantity int) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	}
	c.Lines[i].Quantity = quantity
	return true
}

func (c *Cart) RemoveItem(menuItemID uint) bool {
	return c.UpdateQuantity(menuItemID, 0)
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// View is the JSON shape returned to clients, with derived fields filled in.
type View struct {
	Scope Scope           `json:"scope"`
	Lines []Line          `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func (c *Cart) View() View {
	return View{Scope: c.Scope, Lines: c.Lines, Count: c.Count(), Total: c.Total()}
}
