package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunea_back_end/internal/models"
)

func ptr(s string) *string { return &s }

func newItem(entryID, productID string, variation, size *string, qty, price int) models.CartItem {
	return models.CartItem{
		EntryID:       entryID,
		ProductID:     productID,
		Title:         "Lampe en rotin",
		Price:         price,
		OriginalPrice: price,
		Quantity:      qty,
		Variation:     variation,
		Size:          size,
		AddedAt:       time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestAddItemMergesSameConfiguration(t *testing.T) {
	items := AddItem(nil, newItem("e1", "p1", ptr("rouge"), ptr("M"), 2, 800))
	items = AddItem(items, newItem("e2", "p1", ptr("rouge"), ptr("M"), 3, 800))

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	// la ligne existante garde son identité et ses champs
	assert.Equal(t, "e1", items[0].EntryID)
}

func TestAddItemMergeKeepsOriginalPrice(t *testing.T) {
	items := AddItem(nil, newItem("e1", "p1", nil, nil, 1, 800))

	// Un deuxième ajout à un prix différent (discount expiré entre temps)
	// ne touche pas au prix de la ligne existante
	later := newItem("e2", "p1", nil, nil, 1, 1000)
	items = AddItem(items, later)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 800, items[0].Price)
}

func TestAddItemDistinctVariationsNotMerged(t *testing.T) {
	items := AddItem(nil, newItem("e1", "p1", ptr("rouge"), nil, 1, 800))
	items = AddItem(items, newItem("e2", "p1", ptr("bleu"), nil, 1, 800))

	require.Len(t, items, 2)
	// ordre d'insertion préservé
	assert.Equal(t, "e1", items[0].EntryID)
	assert.Equal(t, "e2", items[1].EntryID)
}

func TestAddItemDistinctSizesNotMerged(t *testing.T) {
	items := AddItem(nil, newItem("e1", "p1", ptr("rouge"), ptr("M"), 1, 800))
	items = AddItem(items, newItem("e2", "p1", ptr("rouge"), ptr("L"), 1, 800))

	require.Len(t, items, 2)
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	original := []models.CartItem{newItem("e1", "p1", nil, nil, 2, 800)}

	_ = AddItem(original, newItem("e2", "p1", nil, nil, 3, 800))

	assert.Equal(t, 2, original[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	items := []models.CartItem{
		newItem("e1", "p1", nil, nil, 2, 800),
		newItem("e2", "p2", nil, nil, 1, 500),
	}

	updated := UpdateQuantity(items, "e1", 7)
	require.Len(t, updated, 2)
	assert.Equal(t, 7, updated[0].Quantity)
	assert.Equal(t, 2, items[0].Quantity) // entrée intacte
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	items := []models.CartItem{
		newItem("e1", "p1", nil, nil, 2, 800),
		newItem("e2", "p2", nil, nil, 1, 500),
	}

	updated := UpdateQuantity(items, "e1", 0)
	require.Len(t, updated, 1)
	assert.Equal(t, "e2", updated[0].EntryID)

	updated = UpdateQuantity(items, "e2", -3)
	require.Len(t, updated, 1)
	assert.Equal(t, "e1", updated[0].EntryID)
}

func TestRemoveItemPreservesOrder(t *testing.T) {
	items := []models.CartItem{
		newItem("e1", "p1", nil, nil, 1, 100),
		newItem("e2", "p2", nil, nil, 1, 200),
		newItem("e3", "p3", nil, nil, 1, 300),
	}

	updated := RemoveItem(items, "e2")
	require.Len(t, updated, 2)
	assert.Equal(t, "e1", updated[0].EntryID)
	assert.Equal(t, "e3", updated[1].EntryID)

	// suppression d'un ID inconnu : no-op
	assert.Len(t, RemoveItem(items, "e9"), 3)
}

func TestTotals(t *testing.T) {
	discounted := newItem("e1", "p1", nil, nil, 3, 800)
	discounted.OriginalPrice = 1000

	items := []models.CartItem{
		discounted,
		newItem("e2", "p2", nil, nil, 2, 500),
	}

	assert.Equal(t, 3*800+2*500, Total(items))
	assert.Equal(t, 3*200, TotalSavings(items))
	assert.Equal(t, 5, Count(items))
}

func TestFind(t *testing.T) {
	items := []models.CartItem{newItem("e1", "p1", nil, nil, 1, 100)}

	got, ok := Find(items, "e1")
	require.True(t, ok)
	assert.Equal(t, "p1", got.ProductID)

	_, ok = Find(items, "e2")
	assert.False(t, ok)
}
