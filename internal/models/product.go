package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Price       int                `bson:"price" json:"price"` // unité monétaire entière, jamais négatif
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	CoverImage  string             `bson:"cover_image" json:"cover_image"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	Available   bool               `bson:"available" json:"available"`
	Variations  []string           `bson:"variations,omitempty" json:"variations,omitempty"`
	Sizes       []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Featured    bool               `bson:"featured" json:"featured"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasVariation vérifie qu'un libellé de variation est bien proposé par le
// produit. Un produit sans variations n'en propose aucune.
func (p Product) HasVariation(label string) bool {
	for _, v := range p.Variations {
		if v == label {
			return true
		}
	}
	return false
}

func (p Product) HasSize(label string) bool {
	for _, s := range p.Sizes {
		if s == label {
			return true
		}
	}
	return false
}
