package handlers

import (
	"log"
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

// validateDiscountWindow applique les règles communes à la création et à
// la mise à jour. Retourne un message d'erreur utilisateur, ou "".
func validateDiscountWindow(productIDs []string, percentage float64, startsAt, endsAt models.FlexTime) string {
	if len(productIDs) == 0 {
		return "Sélectionnez au moins un produit"
	}
	if percentage <= 0 || percentage > 100 {
		return "Le pourcentage doit être entre 1 et 100"
	}
	if !startsAt.Valid || !endsAt.Valid {
		return "Dates de début et de fin obligatoires"
	}
	if !endsAt.Time.After(startsAt.Time) {
		return "La date de fin doit être strictement après la date de début"
	}
	return ""
}

// CreateDiscount - POST /api/admin/discounts
func CreateDiscount(c *gin.Context) {
	var req struct {
		ProductIDs  []string        `json:"product_ids"`
		Percentage  float64         `json:"percentage"`
		Description string          `json:"description"`
		StartsAt    models.FlexTime `json:"starts_at"`
		EndsAt      models.FlexTime `json:"ends_at"`
		Enabled     *bool           `json:"enabled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	// Validation avant toute écriture
	if msg := validateDiscountWindow(req.ProductIDs, req.Percentage, req.StartsAt, req.EndsAt); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	d := models.Discount{
		ID:          primitive.NewObjectID(),
		ProductIDs:  req.ProductIDs,
		Percentage:  req.Percentage,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Enabled:     enabled,
		CreatedAt:   time.Now(),
	}

	if _, err := database.Collection(database.ColDiscounts).InsertOne(c.Request.Context(), d); err != nil {
		log.Printf("❌ Erreur création discount: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du discount"})
		return
	}

	cache.InvalidateDiscounts()
	services.NotifyChange(database.ColDiscounts)

	log.Printf("✅ Discount créé: %.0f%% sur %d produit(s)", d.Percentage, len(d.ProductIDs))
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Discount créé avec succès",
		"discount": d,
	})
}

// GetAllDiscounts - GET /api/admin/discounts
func GetAllDiscounts(c *gin.Context) {
	discounts, err := cache.Discounts(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur récupération discounts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// L'admin voit aussi l'état résolu à l'instant T
	now := time.Now()
	type discountView struct {
		models.Discount
		Active bool `json:"active"`
	}
	views := make([]discountView, 0, len(discounts))
	for _, d := range discounts {
		views = append(views, discountView{Discount: d, Active: pricing.IsActive(d, now)})
	}

	c.JSON(http.StatusOK, gin.H{
		"discounts": views,
		"total":     len(views),
	})
}

// UpdateDiscount - PUT /api/admin/discounts/:id
func UpdateDiscount(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID discount invalide"})
		return
	}

	var req struct {
		ProductIDs  *[]string        `json:"product_ids"`
		Percentage  *float64         `json:"percentage"`
		Description *string          `json:"description"`
		StartsAt    *models.FlexTime `json:"starts_at"`
		EndsAt      *models.FlexTime `json:"ends_at"`
		Enabled     *bool            `json:"enabled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var existing models.Discount
	err = database.Collection(database.ColDiscounts).FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discount introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture discount"})
		return
	}

	if req.ProductIDs != nil {
		existing.ProductIDs = *req.ProductIDs
	}
	if req.Percentage != nil {
		existing.Percentage = *req.Percentage
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.StartsAt != nil {
		existing.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		existing.EndsAt = *req.EndsAt
	}
	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}

	// Le document résultant doit rester valide dans son ensemble
	if msg := validateDiscountWindow(existing.ProductIDs, existing.Percentage, existing.StartsAt, existing.EndsAt); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if _, err := database.Collection(database.ColDiscounts).ReplaceOne(ctx, bson.M{"_id": id}, existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour discount"})
		return
	}

	cache.InvalidateDiscounts()
	services.NotifyChange(database.ColDiscounts)

	c.JSON(http.StatusOK, gin.H{"message": "Discount mis à jour", "discount": existing})
}

// DeleteDiscount - DELETE /api/admin/discounts/:id
func DeleteDiscount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID discount invalide"})
		return
	}

	res, err := database.Collection(database.ColDiscounts).DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression discount"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discount introuvable"})
		return
	}

	cache.InvalidateDiscounts()
	services.NotifyChange(database.ColDiscounts)

	c.JSON(http.StatusOK, gin.H{"message": "Discount supprimé"})
}

// PreviewDiscount - POST /api/admin/discounts/preview
// Aperçu du prix remisé pendant la création : exactement la même formule
// que la vitrine, pour que l'admin voie ce que le client verra.
func PreviewDiscount(c *gin.Context) {
	var req struct {
		Price      *int    `json:"price"`
		Percentage float64 `json:"percentage"`
		Quantity   int     `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif ou nul"})
		return
	}
	if req.Percentage <= 0 || req.Percentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le pourcentage doit être entre 1 et 100"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	discounted := pricing.DiscountedPrice(*req.Price, req.Percentage)

	c.JSON(http.StatusOK, gin.H{
		"price":            *req.Price,
		"discounted_price": discounted,
		"savings":          pricing.Savings(*req.Price, discounted, req.Quantity),
		"quantity":         req.Quantity,
	})
}
