package models

import "time"

// CartItem porte deux identités distinctes :
//   - EntryID : identifiant stable attribué à la création, utilisé pour
//     la suppression et la mise à jour de quantité ;
//   - MergeKey() : clé de fusion (produit + variation + taille), utilisée
//     uniquement pour décider si un ajout incrémente une ligne existante.
// Le prix unitaire est figé au moment de l'ajout (après remise) et n'est
// jamais recalculé si un discount change ensuite.
type CartItem struct {
	EntryID       string    `bson:"entry_id" json:"entry_id"`
	ProductID     string    `bson:"product_id" json:"product_id"`
	Title         string    `bson:"title" json:"title"`
	Price         int       `bson:"price" json:"price"`                   // prix unitaire au moment de l'ajout
	OriginalPrice int       `bson:"original_price" json:"original_price"` // prix catalogue
	CoverImage    string    `bson:"cover_image" json:"cover_image"`
	Quantity      int       `bson:"quantity" json:"quantity"` // toujours > 0
	Variation     *string   `bson:"variation,omitempty" json:"variation,omitempty"`
	Size          *string   `bson:"size,omitempty" json:"size,omitempty"`
	DiscountPct   *float64  `bson:"discount_pct,omitempty" json:"discount_pct,omitempty"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
}

// MergeKey identifie une configuration produit/variation/taille.
func (i CartItem) MergeKey() string {
	variation, size := "", ""
	if i.Variation != nil {
		variation = *i.Variation
	}
	if i.Size != nil {
		size = *i.Size
	}
	return i.ProductID + "|" + variation + "|" + size
}
