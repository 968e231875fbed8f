package domain

type CartItem struct {
	ProductID string
	Quantity  int
}

// A Cart keeps one line per product in insertion order.
//
// The zero value is an empty cart ready to use.
type Cart struct {
	items []CartItem
}

// Add increments the quantity of productID or appends a new line.
func (c *Cart) Add(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, CartItem{ProductID: productID, Quantity: 1})
}

// SetQuantity sets the quantity of an existing line.
// A quantity below one removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		if quantity < 1 {
			c.Remove(productID)
			return true
		}
		c.items[i].Quantity = quantity
		return true
	}
	return false
}

func (c *Cart) Remove(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}
