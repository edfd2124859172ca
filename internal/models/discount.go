package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount est une remise en pourcentage, bornée dans le temps, qui cible
// zéro ou plusieurs produits. Le flag Enabled est indépendant de la
// fenêtre temporelle : un discount peut être coupé à la main sans toucher
// aux dates.
type Discount struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductIDs  []string           `bson:"product_ids" json:"product_ids"`
	Percentage  float64            `bson:"percentage" json:"percentage"` // dans (0,100]
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartsAt    FlexTime           `bson:"starts_at" json:"starts_at"`
	EndsAt      FlexTime           `bson:"ends_at" json:"ends_at"`
	Enabled     bool               `bson:"enabled" json:"enabled"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (d Discount) AppliesTo(productID string) bool {
	for _, id := range d.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
