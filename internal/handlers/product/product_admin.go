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
	"lunea_back_end/internal/services"
)

// CreateProduct - POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var req struct {
		Title       string   `json:"title"`
		Price       *int     `json:"price"`
		Category    string   `json:"category"`
		Description string   `json:"description"`
		CoverImage  string   `json:"cover_image"`
		Images      []string `json:"images"`
		Available   *bool    `json:"available"`
		Variations  []string `json:"variations"`
		Sizes       []string `json:"sizes"`
		Featured    bool     `json:"featured"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	// Validation avant toute écriture
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le titre est obligatoire"})
		return
	}
	if req.Price == nil || *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être un entier positif ou nul"})
		return
	}
	if req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La catégorie est obligatoire"})
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	now := time.Now()
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Price:       *req.Price,
		Category:    req.Category,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Images:      req.Images,
		Available:   available,
		Variations:  req.Variations,
		Sizes:       req.Sizes,
		Featured:    req.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.Collection(database.ColProducts).InsertOne(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	cache.InvalidateProducts()
	services.NotifyChange(database.ColProducts)

	c.JSON(http.StatusCreated, p)
}

// UpdateProduct - PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Title       *string   `json:"title"`
		Price       *int      `json:"price"`
		Category    *string   `json:"category"`
		Description *string   `json:"description"`
		CoverImage  *string   `json:"cover_image"`
		Images      *[]string `json:"images"`
		Available   *bool     `json:"available"`
		Variations  *[]string `json:"variations"`
		Sizes       *[]string `json:"sizes"`
		Featured    *bool     `json:"featured"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le titre ne peut pas être vide"})
			return
		}
		set["title"] = *req.Title
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être un entier positif ou nul"})
			return
		}
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.CoverImage != nil {
		set["cover_image"] = *req.CoverImage
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}
	if req.Available != nil {
		set["available"] = *req.Available
	}
	if req.Variations != nil {
		set["variations"] = *req.Variations
	}
	if req.Sizes != nil {
		set["sizes"] = *req.Sizes
	}
	if req.Featured != nil {
		set["featured"] = *req.Featured
	}

	res, err := database.Collection(database.ColProducts).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var p models.Product
	if err := database.Collection(database.ColProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p); err == nil {
		go services.IndexProduct(p)
	}

	cache.InvalidateProducts()
	services.NotifyChange(database.ColProducts)

	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour", "product": p})
}

// DeleteProduct - DELETE /api/admin/products/:id
func DeleteProduct(c *gin.Context) {
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

	if _, err := database.Collection(database.ColProducts).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	// Nettoyage best effort : index de recherche puis images du bucket
	go services.RemoveProductFromIndex(id.Hex())
	go func(p models.Product) {
		ctx := context.Background()
		services.DeleteObject(ctx, p.CoverImage)
		for _, img := range p.Images {
			services.DeleteObject(ctx, img)
		}
	}(p)

	cache.InvalidateProducts()
	services.NotifyChange(database.ColProducts)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// UploadImage - POST /api/admin/products/image
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	objectName, err := services.UploadProductImage(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	signed, _ := services.GenerateSignedURL(c.Request.Context(), objectName, 24*time.Hour)

	c.JSON(http.StatusOK, gin.H{
		"image": objectName,
		"url":   signed,
	})
}
