package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunea_back_end/internal/models"
)

// fakeBackend simule un store clé/valeur en mémoire. errLoad/errSave
// permettent de jouer un store en panne.
type fakeBackend struct {
	data    map[string]string
	errLoad error
	errSave error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: map[string]string{}}
}

func (b *fakeBackend) Load(_ context.Context, key string) (string, error) {
	if b.errLoad != nil {
		return "", b.errLoad
	}
	payload, ok := b.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return payload, nil
}

func (b *fakeBackend) Save(_ context.Context, key, payload string) error {
	if b.errSave != nil {
		return b.errSave
	}
	b.data[key] = payload
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, key string) error {
	delete(b.data, key)
	return nil
}

func storeItem(entryID string, qty int) models.CartItem {
	return models.CartItem{
		EntryID:       entryID,
		ProductID:     "p1",
		Title:         "Miroir soleil",
		Price:         800,
		OriginalPrice: 1000,
		Quantity:      qty,
		AddedAt:       time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreSaveWritesBoth(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	items := []models.CartItem{storeItem("e1", 2)}
	require.NoError(t, s.Save(ctx, "tok", items))

	assert.Contains(t, persistent.data, "cartItems:tok")
	assert.Contains(t, session.data, "cartItems:tok")
	assert.Equal(t, persistent.data["cartItems:tok"], session.data["cartItems:tok"])
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(newFakeBackend(), newFakeBackend())
	ctx := context.Background()

	items := []models.CartItem{storeItem("e1", 2), storeItem("e2", 1)}
	require.NoError(t, s.Save(ctx, "tok", items))

	assert.Equal(t, items, s.Load(ctx, "tok"))
}

func TestStoreLoadPrefersPersistent(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	// les deux stores divergent (écriture session perdue puis réécrite)
	require.NoError(t, NewStore(persistent, newFakeBackend()).Save(ctx, "tok", []models.CartItem{storeItem("e1", 5)}))
	require.NoError(t, NewStore(newFakeBackend(), session).Save(ctx, "tok", []models.CartItem{storeItem("e1", 1)}))

	got := s.Load(ctx, "tok")
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Quantity)
}

func TestStoreLoadFallsBackToSession(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	items := []models.CartItem{storeItem("e1", 3)}
	require.NoError(t, s.Save(ctx, "tok", items))

	// store persistant vidé : la session prend le relais
	persistent.data = map[string]string{}
	assert.Equal(t, items, s.Load(ctx, "tok"))

	// store persistant en panne : même comportement
	persistent.errLoad = errors.New("connexion perdue")
	assert.Equal(t, items, s.Load(ctx, "tok"))
}

func TestStoreLoadCorruptPayloadFallsBack(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	items := []models.CartItem{storeItem("e1", 2)}
	require.NoError(t, s.Save(ctx, "tok", items))

	persistent.data["cartItems:tok"] = "{pas du json"
	assert.Equal(t, items, s.Load(ctx, "tok"))
}

func TestStoreLoadBothCorruptYieldsEmptyCart(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	persistent.data["cartItems:tok"] = "{pas du json"
	session.data["cartItems:tok"] = "[corrompu aussi"

	got := NewStore(persistent, session).Load(context.Background(), "tok")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestStoreLoadUnknownToken(t *testing.T) {
	s := NewStore(newFakeBackend(), newFakeBackend())
	got := s.Load(context.Background(), "inconnu")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestStoreSaveToleratesOneFailure(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	persistent.errSave = errors.New("connexion perdue")
	items := []models.CartItem{storeItem("e1", 1)}
	require.NoError(t, s.Save(ctx, "tok", items))
	assert.Equal(t, items, s.Load(ctx, "tok"))

	// les deux en panne : là seulement l'erreur remonte
	session.errSave = errors.New("connexion perdue")
	assert.Error(t, s.Save(ctx, "tok", items))
}

func TestStoreClear(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", []models.CartItem{storeItem("e1", 1)}))
	require.NoError(t, s.Clear(ctx, "tok"))

	assert.NotContains(t, persistent.data, "cartItems:tok")
	assert.NotContains(t, session.data, "cartItems:tok")
	assert.Empty(t, s.Load(ctx, "tok"))
}

func TestStoreBuyNowOverwrites(t *testing.T) {
	persistent, session := newFakeBackend(), newFakeBackend()
	s := NewStore(persistent, session)
	ctx := context.Background()

	require.NoError(t, s.SaveBuyNow(ctx, "tok", storeItem("e1", 1)))
	require.NoError(t, s.SaveBuyNow(ctx, "tok", storeItem("e2", 4)))

	got, ok := s.LoadBuyNow(ctx, "tok")
	require.True(t, ok)
	assert.Equal(t, "e2", got.EntryID)
	assert.Equal(t, 4, got.Quantity)

	// l'achat immédiat ne vit que côté session
	assert.NotContains(t, persistent.data, "buyNowItem:tok")
}

func TestStoreBuyNowIndependentFromCart(t *testing.T) {
	s := NewStore(newFakeBackend(), newFakeBackend())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", []models.CartItem{storeItem("e1", 2)}))
	require.NoError(t, s.SaveBuyNow(ctx, "tok", storeItem("e9", 1)))

	// vider le panier ne touche pas à l'achat immédiat
	require.NoError(t, s.Clear(ctx, "tok"))
	_, ok := s.LoadBuyNow(ctx, "tok")
	assert.True(t, ok)

	require.NoError(t, s.ClearBuyNow(ctx, "tok"))
	_, ok = s.LoadBuyNow(ctx, "tok")
	assert.False(t, ok)
}

func TestStoreBuyNowCorruptPayload(t *testing.T) {
	_, session := newFakeBackend(), newFakeBackend()
	session.data["buyNowItem:tok"] = "{pas du json"

	s := NewStore(newFakeBackend(), session)
	_, ok := s.LoadBuyNow(context.Background(), "tok")
	assert.False(t, ok)
}
