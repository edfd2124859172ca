// Package pricing est le moteur de résolution des remises. Les fonctions
// sont pures : la page produit, l'inventaire admin et l'aperçu de création
// de discount passent tous par ici, donc les prix affichés ne peuvent pas
// diverger d'une vue à l'autre.
package pricing

import (
	"math"
	"time"

	"lunea_back_end/internal/models"
)

// IsActive indique si un discount est actif à l'instant now :
// enabled ET starts_at ≤ now ≤ ends_at (bornes incluses).
// Un document mal formé (dates illisibles) n'est jamais actif.
func IsActive(d models.Discount, now time.Time) bool {
	if !d.Enabled || !d.StartsAt.Valid || !d.EndsAt.Valid {
		return false
	}
	return !now.Before(d.StartsAt.Time) && !now.After(d.EndsAt.Time)
}

// ResolveActive retourne le premier discount du snapshot qui est actif et
// qui cible le produit. L'ordre du snapshot fait foi ; le lecteur le trie
// par date de création croissante pour que le résultat soit déterministe
// d'une reconnexion à l'autre.
func ResolveActive(p models.Product, discounts []models.Discount, now time.Time) (models.Discount, bool) {
	id := p.ID.Hex()
	for _, d := range discounts {
		if d.Percentage <= 0 || d.Percentage > 100 {
			continue // pourcentage hors bornes : le discount ne s'applique pas
		}
		if !d.AppliesTo(id) {
			continue
		}
		if IsActive(d, now) {
			return d, true
		}
	}
	return models.Discount{}, false
}

// DiscountedPrice calcule round(price * (1 - pct/100)), arrondi à l'entier
// le plus proche (demi vers le haut). Le résultat est borné dans
// [0, price] ; un pourcentage hors de (0,100] rend le prix inchangé.
func DiscountedPrice(price int, pct float64) int {
	if price <= 0 {
		return 0
	}
	if pct <= 0 || pct > 100 {
		return price
	}
	v := int(math.Round(float64(price) * (1 - pct/100)))
	if v < 0 {
		return 0
	}
	if v > price {
		return price
	}
	return v
}

// Savings retourne (price - discounted) * qty, jamais négatif.
func Savings(price, discounted, qty int) int {
	s := (price - discounted) * qty
	if s < 0 {
		return 0
	}
	return s
}

// Quote est le résultat de la résolution pour un produit, prêt à décorer
// une réponse HTTP.
type Quote struct {
	Price           int      `json:"price"`
	DiscountedPrice int      `json:"discounted_price"`
	Percentage      *float64 `json:"discount_percentage,omitempty"`
	Description     string   `json:"discount_description,omitempty"`
	Active          bool     `json:"discount_active"`
}

// QuoteFor résout le discount actif d'un produit et en déduit le prix
// affiché. Sans discount actif, le prix remisé est le prix catalogue.
func QuoteFor(p models.Product, discounts []models.Discount, now time.Time) Quote {
	q := Quote{Price: p.Price, DiscountedPrice: p.Price}
	d, ok := ResolveActive(p, discounts, now)
	if !ok {
		return q
	}
	pct := d.Percentage
	q.Active = true
	q.Percentage = &pct
	q.Description = d.Description
	q.DiscountedPrice = DiscountedPrice(p.Price, pct)
	return q
}
