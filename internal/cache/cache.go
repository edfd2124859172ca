package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	DiscountCacheTTL = 5 * time.Minute

	productsCacheKey  = "products:all"
	discountsCacheKey = "discounts:all"
)

// Products retourne le snapshot complet des produits, depuis Redis ou
// MongoDB, trié par date de création décroissante. Le pricing n'est
// jamais mis en cache : les remises dépendent de l'horloge et se
// recalculent à chaque lecture.
func Products(ctx context.Context) ([]models.Product, error) {
	// 1. Essayer le cache Redis
	if data, err := database.Redis.Get(ctx, productsCacheKey).Result(); err == nil && data != "" {
		var cached []models.Product
		if json.Unmarshal([]byte(data), &cached) == nil {
			return cached, nil
		}
	}

	// 2. Récupérer depuis MongoDB
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Collection(database.ColProducts).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, productsCacheKey, data, ProductCacheTTL)
	}

	return products, nil
}

// Discounts retourne le snapshot complet des discounts, trié par date de
// création croissante. Ce tri rend l'ordre du snapshot stable d'une
// reconnexion à l'autre : à cibles multiples, c'est toujours le discount
// le plus ancien qui gagne.
func Discounts(ctx context.Context) ([]models.Discount, error) {
	if data, err := database.Redis.Get(ctx, discountsCacheKey).Result(); err == nil && data != "" {
		var cached []models.Discount
		if json.Unmarshal([]byte(data), &cached) == nil {
			return cached, nil
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := database.Collection(database.ColDiscounts).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	discounts := []models.Discount{}
	if err := cursor.All(ctx, &discounts); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(discounts); err == nil {
		database.Redis.Set(ctx, discountsCacheKey, data, DiscountCacheTTL)
	}

	return discounts, nil
}

// InvalidateProducts invalide le snapshot produits après une écriture admin.
func InvalidateProducts() {
	if err := database.Redis.Del(context.Background(), productsCacheKey).Err(); err != nil {
		log.Printf("⚠️ Invalidation cache produits échouée: %v", err)
	}
}

// InvalidateDiscounts invalide le snapshot discounts après une écriture admin.
func InvalidateDiscounts() {
	if err := database.Redis.Del(context.Background(), discountsCacheKey).Err(); err != nil {
		log.Printf("⚠️ Invalidation cache discounts échouée: %v", err)
	}
}
