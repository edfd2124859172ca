package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lunea_back_end/internal/cache"
	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"
	"lunea_back_end/internal/pricing"
	"lunea_back_end/internal/services"
)

// productView décore un produit avec sa remise résolue. Vitrine et admin
// passent par la même résolution : les prix affichés ne peuvent pas
// diverger entre les deux vues.
type productView struct {
	models.Product
	Pricing pricing.Quote `json:"pricing"`
}

func decorate(ctx context.Context, products []models.Product) []productView {
	discounts, err := cache.Discounts(ctx)
	if err != nil {
		// Snapshot discounts indisponible : la vitrine affiche le prix
		// catalogue plutôt que d'échouer
		discounts = nil
	}

	now := time.Now()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			Product: p,
			Pricing: pricing.QuoteFor(p, discounts, now),
		})
	}
	return views
}

// signImages remplace les références d'images par des URLs signées MinIO.
// Best effort : en cas d'échec la référence brute est conservée.
func signImages(ctx context.Context, v *productView) {
	if signed, err := services.GenerateSignedURL(ctx, v.CoverImage, 24*time.Hour); err == nil && signed != "" {
		v.CoverImage = signed
	}
	for i, img := range v.Images {
		if signed, err := services.GenerateSignedURL(ctx, img, 24*time.Hour); err == nil && signed != "" {
			v.Images[i] = signed
		}
	}
}

// GetAllProducts - GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := cache.Products(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, decorate(ctx, products))
}

// GetFeaturedProducts - GET /api/products/featured
func GetFeaturedProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := cache.Products(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	featured := []models.Product{}
	for _, p := range products {
		if p.Featured && p.Available {
			featured = append(featured, p)
		}
	}

	c.JSON(http.StatusOK, decorate(ctx, featured))
}

// GetProduct - GET /api/products/:id
func GetProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var p models.Product
	err = database.Collection(database.ColProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	views := decorate(ctx, []models.Product{p})
	view := views[0]
	signImages(ctx, &view)

	c.JSON(http.StatusOK, view)
}

// SearchProducts - GET /api/products/search?q=
func SearchProducts(c *gin.Context) {
	ctx := c.Request.Context()

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 🔎 1️⃣ Recherche dans Elasticsearch (prioritaire)
	if ids, err := services.SearchProductIDs(query); err == nil {
		byID := map[string]models.Product{}
		if products, err := cache.Products(ctx); err == nil {
			for _, p := range products {
				byID[p.ID.Hex()] = p
			}
		}
		results := []models.Product{}
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				results = append(results, p)
			}
		}
		c.JSON(http.StatusOK, decorate(ctx, results))
		return
	}

	// 2️⃣ Repli sur le document store (regex sur le titre)
	cursor, err := database.Collection(database.ColProducts).Find(ctx, bson.M{
		"title": bson.M{"$regex": query, "$options": "i"},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche produits"})
		return
	}

	results := []models.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture résultats"})
		return
	}

	c.JSON(http.StatusOK, decorate(ctx, results))
}
