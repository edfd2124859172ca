// Package cart implémente l'agrégation du panier : fusion des ajouts
// répétés d'une même configuration, opérations par EntryID, et
// persistance redondante sur deux stores indépendants.
package cart

import "lunea_back_end/internal/models"

// AddItem retourne un nouveau panier. Si une ligne existante porte la même
// MergeKey (produit + variation + taille), sa quantité est incrémentée et
// ses autres champs (prix compris) restent figés ; sinon l'article est
// ajouté en fin de liste. Le panier d'entrée n'est jamais modifié.
func AddItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)

	key := item.MergeKey()
	for i := range out {
		if out[i].MergeKey() == key {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	return append(out, item)
}

// Find retrouve une ligne par son EntryID.
func Find(items []models.CartItem, entryID string) (models.CartItem, bool) {
	for _, it := range items {
		if it.EntryID == entryID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// RemoveItem retourne un nouveau panier sans la ligne identifiée par
// entryID. L'ordre des autres lignes est préservé.
func RemoveItem(items []models.CartItem, entryID string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.EntryID != entryID {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity fixe la quantité d'une ligne. Une quantité ≤ 0 supprime
// la ligne : c'est le comportement documenté de l'éditeur de quantité,
// mettre zéro équivaut à retirer l'article.
func UpdateQuantity(items []models.CartItem, entryID string, quantity int) []models.CartItem {
	if quantity <= 0 {
		return RemoveItem(items, entryID)
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].EntryID == entryID {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}

// Total additionne prix unitaire × quantité sur toutes les lignes.
func Total(items []models.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Price * it.Quantity
	}
	return total
}

// TotalSavings additionne l'économie réalisée ligne par ligne par rapport
// au prix catalogue.
func TotalSavings(items []models.CartItem) int {
	savings := 0
	for _, it := range items {
		s := (it.OriginalPrice - it.Price) * it.Quantity
		if s > 0 {
			savings += s
		}
	}
	return savings
}

// Count retourne le nombre d'articles (quantités cumulées).
func Count(items []models.CartItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}
