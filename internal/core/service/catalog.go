package service

import (
	"fmt"
	"slices"

	"github.com/niksmo/medsupply/internal/core/domain"
)

func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// UpdateProduct upserts p by id after the catalog write delay.
//
// A product with unknown id is inserted in front of the catalog,
// an empty id is generated. The returned channel yields the stored product.
func (s *Store) UpdateProduct(
	sess *Session, p domain.Product,
) (<-chan domain.Product, error) {
	const op = "Store.UpdateProduct"

	if !p.Availability.Valid() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidAvailability)
	}

	if p.ID == "" {
		p.ID = s.newID()
	}

	actor, addr := sess.actor()
	return simulate(s.sync, s.catalogDelay, func() domain.Product {
		s.mu.Lock()
		p.LastUpdated = s.now().UTC()
		if i := s.productIndex(p.ID); i >= 0 {
			s.products[i] = p
		} else {
			s.products = slices.Insert(s.products, 0, p)
		}
		s.mu.Unlock()

		s.appendLog(actor, addr, "CATALOG", "Catalog entry updated: "+p.Name, "WRITE")
		return p
	}), nil
}

// DeleteProduct removes the product after the catalog write delay.
// Unknown id is a no-op, the action is logged anyway.
func (s *Store) DeleteProduct(sess *Session, id string) <-chan struct{} {
	actor, addr := sess.actor()
	return simulate(s.sync, s.catalogDelay, func() struct{} {
		s.mu.Lock()
		s.products = slices.DeleteFunc(s.products, func(p domain.Product) bool {
			return p.ID == id
		})
		s.mu.Unlock()

		s.appendLog(actor, addr, "CATALOG", "Catalog entry purged: "+id, "DELETE")
		return struct{}{}
	})
}

// productIndex must be called with s.mu held.
func (s *Store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool {
		return p.ID == id
	})
}
