package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lunea_back_end/internal/cache"
	"lunea_back_end/internal/cart"
	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"
	"lunea_back_end/internal/pricing"
	"lunea_back_end/internal/services"
)

const cartTTL = 30 * 24 * time.Hour

// cartStore assemble la persistance redondante du panier : MongoDB comme
// store persistant, Redis comme store de session. Chaque sauvegarde écrit
// les deux, chaque lecture préfère le persistant.
func cartStore() *cart.Store {
	return cart.NewStore(
		&cart.MongoBackend{Collection: database.Collection(database.ColCarts)},
		&cart.RedisBackend{Client: database.Redis, TTL: cartTTL},
	)
}

// cartToken identifie le panier d'un visiteur, authentifié ou non. Priorité
// au header (clients API), puis au cookie ; sinon on en émet un nouveau.
func cartToken(c *gin.Context) string {
	if t := c.GetHeader("X-Cart-Token"); t != "" {
		return t
	}
	if t, err := c.Cookie("cart_token"); err == nil && t != "" {
		return t
	}
	t := uuid.NewString()
	c.SetCookie("cart_token", t, int(cartTTL.Seconds()), "/", "", false, true)
	return t
}

// buildCartItem fige un article au moment de l'ajout : le prix unitaire
// est le prix remisé du moment, et il ne bougera plus même si le discount
// expire ou change ensuite.
func buildCartItem(c *gin.Context, productID string, quantity int, variation, size *string) (models.CartItem, bool) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return models.CartItem{}, false
	}

	var product models.Product
	err = database.Collection(database.ColProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return models.CartItem{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return models.CartItem{}, false
	}

	if !product.Available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produit indisponible"})
		return models.CartItem{}, false
	}
	if variation != nil && !product.HasVariation(*variation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Variation inconnue pour ce produit"})
		return models.CartItem{}, false
	}
	if size != nil && !product.HasSize(*size) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Taille inconnue pour ce produit"})
		return models.CartItem{}, false
	}

	// Un snapshot discounts indisponible dégrade en prix catalogue
	discounts, err := cache.Discounts(ctx)
	if err != nil {
		discounts = nil
	}
	quote := pricing.QuoteFor(product, discounts, time.Now())

	item := models.CartItem{
		EntryID:       uuid.NewString(),
		ProductID:     product.ID.Hex(),
		Title:         product.Title,
		Price:         quote.DiscountedPrice,
		OriginalPrice: product.Price,
		CoverImage:    product.CoverImage,
		Quantity:      quantity,
		Variation:     variation,
		Size:          size,
		DiscountPct:   quote.Percentage,
		AddedAt:       time.Now(),
	}
	return item, true
}

func cartResponse(items []models.CartItem) gin.H {
	return gin.H{
		"items":   items,
		"total":   cart.Total(items),
		"savings": cart.TotalSavings(items),
		"count":   cart.Count(items),
	}
}

// GetCart - GET /api/cart
func GetCart(c *gin.Context) {
	token := cartToken(c)
	items := cartStore().Load(c.Request.Context(), token)
	c.JSON(http.StatusOK, cartResponse(items))
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	var input struct {
		ProductID string  `json:"productId" binding:"required"`
		Quantity  int     `json:"quantity"`
		Variation *string `json:"variation"`
		Size      *string `json:"size"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	item, ok := buildCartItem(c, input.ProductID, input.Quantity, input.Variation, input.Size)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	token := cartToken(c)
	store := cartStore()

	// 🔁 Fusionne avec une ligne existante de même configuration, sinon ajoute
	items := cart.AddItem(store.Load(ctx, token), item)

	if err := store.Save(ctx, token, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	services.NotifyCart(token)

	resp := cartResponse(items)
	resp["message"] = "Produit ajouté au panier"
	c.JSON(http.StatusOK, resp)
}

// UpdateCartItem - PUT /api/cart/items/:entryId
// Une quantité à zéro retire la ligne du panier.
func UpdateCartItem(c *gin.Context) {
	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	token := cartToken(c)
	store := cartStore()
	entryID := c.Param("entryId")

	items := store.Load(ctx, token)
	if _, found := cart.Find(items, entryID); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable dans le panier"})
		return
	}

	items = cart.UpdateQuantity(items, entryID, *input.Quantity)

	if err := store.Save(ctx, token, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	services.NotifyCart(token)

	c.JSON(http.StatusOK, cartResponse(items))
}

//
// ❌ DELETE /api/cart/items/:entryId
//
func RemoveCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	token := cartToken(c)
	store := cartStore()

	items := cart.RemoveItem(store.Load(ctx, token), c.Param("entryId"))

	if err := store.Save(ctx, token, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	services.NotifyCart(token)

	resp := cartResponse(items)
	resp["message"] = "Produit supprimé du panier"
	c.JSON(http.StatusOK, resp)
}

//
// 🧹 POST /api/cart/clear
//
func ClearCart(c *gin.Context) {
	token := cartToken(c)

	if err := cartStore().Clear(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}
	services.NotifyCart(token)

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

// BuyNow - POST /api/buy-now
// L'article "achat immédiat" ne passe pas par le panier : un seul
// enregistrement par session, écrasé à chaque clic.
func BuyNow(c *gin.Context) {
	var input struct {
		ProductID string  `json:"productId" binding:"required"`
		Quantity  int     `json:"quantity"`
		Variation *string `json:"variation"`
		Size      *string `json:"size"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	item, ok := buildCartItem(c, input.ProductID, input.Quantity, input.Variation, input.Size)
	if !ok {
		return
	}

	token := cartToken(c)
	if err := cartStore().SaveBuyNow(c.Request.Context(), token, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde achat immédiat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article prêt pour le checkout", "item": item})
}

// GetBuyNow - GET /api/buy-now
func GetBuyNow(c *gin.Context) {
	token := cartToken(c)
	item, ok := cartStore().LoadBuyNow(c.Request.Context(), token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun achat immédiat en cours"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
