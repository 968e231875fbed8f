package service

import (
	"fmt"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// AddToCart adds one unit of productID to the session cart.
func (s *Store) AddToCart(sess *Session, productID string) error {
	const op = "Store.AddToCart"

	if _, ok := s.Product(productID); !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	sess.mu.Lock()
	sess.cart.Add(productID)
	sess.mu.Unlock()
	return nil
}

// SetCartQuantity changes the quantity of a cart line,
// zero or less removes the line.
func (s *Store) SetCartQuantity(sess *Session, productID string, quantity int) error {
	const op = "Store.SetCartQuantity"

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.cart.SetQuantity(productID, quantity) {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return nil
}

func (s *Store) RemoveFromCart(sess *Session, productID string) {
	sess.mu.Lock()
	sess.cart.Remove(productID)
	sess.mu.Unlock()
}

func (s *Store) ClearCart(sess *Session) {
	sess.mu.Lock()
	sess.cart.Clear()
	sess.mu.Unlock()
}

func (s *Store) Cart(sess *Session) []domain.CartItem {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.Items()
}

// CartLines returns the cart with product names from the current catalog.
func (s *Store) CartLines(sess *Session) []domain.QuoteItem {
	return s.resolveItems(s.Cart(sess))
}

func (s *Store) resolveItems(items []domain.CartItem) []domain.QuoteItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	vs := make([]domain.QuoteItem, 0, len(items))
	for _, item := range items {
		name := domain.UnknownProductName
		if i := s.productIndex(item.ProductID); i >= 0 {
			name = s.products[i].Name
		}
		vs = append(vs, domain.QuoteItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      name,
		})
	}
	return vs
}
