package domain_test

import (
	"testing"
	"time"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	t.Run("ZeroValue", func(t *testing.T) {
		var c domain.Cart
		assert.Zero(t, c.Len())
		assert.Empty(t, c.Items())
	})

	t.Run("AddMergesLines", func(t *testing.T) {
		var c domain.Cart
		c.Add("a")
		c.Add("b")
		c.Add("a")

		assert.Equal(t, []domain.CartItem{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 1},
		}, c.Items())
	})

	t.Run("SetQuantity", func(t *testing.T) {
		var c domain.Cart
		c.Add("a")
		c.Add("b")

		require.True(t, c.SetQuantity("a", 5))
		require.True(t, c.SetQuantity("b", -1))
		require.False(t, c.SetQuantity("c", 1))

		assert.Equal(t, []domain.CartItem{{ProductID: "a", Quantity: 5}}, c.Items())
	})

	t.Run("ItemsIsCopy", func(t *testing.T) {
		var c domain.Cart
		c.Add("a")

		items := c.Items()
		items[0].Quantity = 100

		assert.Equal(t, 1, c.Items()[0].Quantity)
	})

	t.Run("RemoveAndClear", func(t *testing.T) {
		var c domain.Cart
		c.Add("a")
		c.Add("b")
		c.Add("c")

		c.Remove("b")
		c.Remove("x")
		assert.Equal(t, []domain.CartItem{
			{ProductID: "a", Quantity: 1},
			{ProductID: "c", Quantity: 1},
		}, c.Items())

		c.Clear()
		assert.Zero(t, c.Len())
	})
}

func TestQuoteClone(t *testing.T) {
	v := decimal.NewFromInt(10)
	q := domain.QuoteRequest{
		ID:             "QT-ABC123",
		Items:          []domain.QuoteItem{{ProductID: "1", Quantity: 1, Name: "Normal Saline"}},
		TotalEstimated: &v,
	}

	c := q.Clone()
	c.Items[0].Quantity = 7
	*c.TotalEstimated = decimal.NewFromInt(99)

	assert.Equal(t, 1, q.Items[0].Quantity)
	assert.True(t, q.TotalEstimated.Equal(decimal.NewFromInt(10)))
}

func TestActionCode(t *testing.T) {
	assert.Equal(t, "INFO_VISIT", domain.ActionCode("", "VISIT"))
	assert.Equal(t, "WRITE_CATALOG", domain.ActionCode("WRITE", "CATALOG"))
}

func TestRole(t *testing.T) {
	assert.Equal(t, domain.ViewSuperAdmin, domain.RoleSuperAdmin.LandingView())
	assert.Equal(t, domain.ViewAdmin, domain.RoleAdmin.LandingView())
	assert.Equal(t, domain.ViewHome, domain.RoleGuest.LandingView())
	assert.True(t, domain.RoleSuperAdmin.IsStaff())
	assert.False(t, domain.RoleGuest.IsStaff())
	assert.False(t, domain.Role("ROOT").Valid())
}

func TestSeedCatalog(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ps := domain.SeedCatalog(now)

	require.Len(t, ps, 8)
	ids := make(map[string]bool)
	for _, p := range ps {
		assert.True(t, p.Availability.Valid(), p.ID)
		assert.Contains(t, domain.Categories, p.Category)
		assert.Equal(t, now, p.LastUpdated)
		ids[p.ID] = true
	}
	assert.Len(t, ids, 8)
}
