package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lunea_back_end/internal/models"
)

var now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newDiscount(start, end time.Time, pct float64, enabled bool, productIDs ...string) models.Discount {
	return models.Discount{
		ID:         primitive.NewObjectID(),
		ProductIDs: productIDs,
		Percentage: pct,
		StartsAt:   models.NewFlexTime(start),
		EndsAt:     models.NewFlexTime(end),
		Enabled:    enabled,
	}
}

func newProduct(price int) models.Product {
	return models.Product{ID: primitive.NewObjectID(), Title: "Vase céramique", Price: price, Available: true}
}

func TestIsActive(t *testing.T) {
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	tests := []struct {
		name     string
		discount models.Discount
		at       time.Time
		want     bool
	}{
		{"inside window", newDiscount(start, end, 20, true, "p1"), now, true},
		{"exactly at start", newDiscount(now, end, 20, true, "p1"), now, true},
		{"exactly at end", newDiscount(start, now, 20, true, "p1"), now, true},
		{"before start", newDiscount(now.Add(time.Minute), end, 20, true, "p1"), now, false},
		{"after end", newDiscount(start, now.Add(-time.Minute), 20, true, "p1"), now, false},
		{"disabled inside window", newDiscount(start, end, 20, false, "p1"), now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.discount, tt.at))
		})
	}
}

func TestIsActiveMalformedDates(t *testing.T) {
	d := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, true, "p1")
	d.StartsAt = models.FlexTime{} // date illisible
	assert.False(t, IsActive(d, now))

	d = newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, true, "p1")
	d.EndsAt = models.FlexTime{}
	assert.False(t, IsActive(d, now))
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price int
		pct   float64
		want  int
	}{
		{"20 percent off 1000", 1000, 20, 800},
		{"rounds half up", 10, 25, 8},  // 7.5 → 8
		{"rounds half up odd", 5, 50, 3}, // 2.5 → 3
		{"full discount", 1000, 100, 0},
		{"tiny percentage", 1000, 0.5, 995},
		{"zero percent ignored", 1000, 0, 1000},
		{"negative percent ignored", 1000, -10, 1000},
		{"over 100 percent ignored", 1000, 150, 1000},
		{"zero price", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedPrice(tt.price, tt.pct)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got, tt.price)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestSavings(t *testing.T) {
	assert.Equal(t, 600, Savings(1000, 800, 3))
	assert.Equal(t, 0, Savings(1000, 1000, 5))
	// jamais négatif, même avec des entrées incohérentes
	assert.Equal(t, 0, Savings(800, 1000, 2))
}

func TestResolveActiveFirstMatchWins(t *testing.T) {
	p := newProduct(1000)
	id := p.ID.Hex()

	first := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 10, true, id)
	second := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 50, true, id)

	got, ok := ResolveActive(p, []models.Discount{first, second}, now)
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
}

func TestResolveActiveSkipsNonMatching(t *testing.T) {
	p := newProduct(1000)
	id := p.ID.Hex()

	otherProduct := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 10, true, "autre")
	disabled := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, false, id)
	expired := newDiscount(now.Add(-2*time.Hour), now.Add(-time.Hour), 30, true, id)
	badPct := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 150, true, id)
	valid := newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 40, true, id)

	got, ok := ResolveActive(p, []models.Discount{otherProduct, disabled, expired, badPct, valid}, now)
	require.True(t, ok)
	assert.Equal(t, valid.ID, got.ID)
}

func TestResolveActiveNone(t *testing.T) {
	p := newProduct(1000)
	_, ok := ResolveActive(p, nil, now)
	assert.False(t, ok)

	_, ok = ResolveActive(p, []models.Discount{newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, true, "autre")}, now)
	assert.False(t, ok)
}

func TestResolveActiveIdempotent(t *testing.T) {
	p := newProduct(1000)
	discounts := []models.Discount{
		newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, true, p.ID.Hex()),
	}

	first, ok1 := ResolveActive(p, discounts, now)
	second, ok2 := ResolveActive(p, discounts, now)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestQuoteForActiveDiscount(t *testing.T) {
	p := newProduct(1000)
	discounts := []models.Discount{
		newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, true, p.ID.Hex()),
	}

	q := QuoteFor(p, discounts, now)
	require.True(t, q.Active)
	assert.Equal(t, 1000, q.Price)
	assert.Equal(t, 800, q.DiscountedPrice)
	require.NotNil(t, q.Percentage)
	assert.Equal(t, 20.0, *q.Percentage)
	assert.Equal(t, 600, Savings(q.Price, q.DiscountedPrice, 3))
}

func TestQuoteForFutureWindow(t *testing.T) {
	p := newProduct(1000)
	discounts := []models.Discount{
		newDiscount(now.Add(time.Hour), now.Add(2*time.Hour), 20, true, p.ID.Hex()),
	}

	q := QuoteFor(p, discounts, now)
	assert.False(t, q.Active)
	assert.Equal(t, 1000, q.DiscountedPrice)
	assert.Nil(t, q.Percentage)
}

func TestQuoteForDisabledDiscount(t *testing.T) {
	p := newProduct(1000)
	discounts := []models.Discount{
		newDiscount(now.Add(-time.Hour), now.Add(time.Hour), 20, false, p.ID.Hex()),
	}

	q := QuoteFor(p, discounts, now)
	assert.False(t, q.Active)
	assert.Equal(t, 1000, q.DiscountedPrice)
}
