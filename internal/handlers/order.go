package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lunea_back_end/internal/cart"
	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"
	"lunea_back_end/internal/services"
	"lunea_back_end/internal/utils"
)

func newOrderReference() string {
	return "LN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateOrder - POST /api/orders
// Point de remise au checkout : fige le snapshot du panier (ou de
// l'article buy-now) dans une commande, puis vide la source consommée.
func CreateOrder(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Phone   string `json:"phone"`
		Address string `json:"address" binding:"required"`
		Source  string `json:"source"` // "cart" (défaut) ou "buynow"
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	token := cartToken(c)
	store := cartStore()

	var items []models.CartItem
	switch req.Source {
	case "buynow":
		item, ok := store.LoadBuyNow(ctx, token)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun achat immédiat en cours"})
			return
		}
		items = []models.CartItem{item}
	default:
		items = store.Load(ctx, token)
	}

	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	order := models.Order{
		ID:          primitive.NewObjectID(),
		Reference:   newOrderReference(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Items:       items,
		AmountTotal: cart.Total(items),
		Savings:     cart.TotalSavings(items),
		Status:      models.OrderPending,
		CreatedAt:   time.Now(),
	}

	if _, err := database.Collection(database.ColOrders).InsertOne(ctx, order); err != nil {
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'enregistrement de la commande"})
		return
	}

	// La source consommée est vidée, l'autre reste intacte
	if req.Source == "buynow" {
		store.ClearBuyNow(ctx, token)
	} else {
		store.Clear(ctx, token)
		services.NotifyCart(token)
	}

	go utils.SendOrderConfirmation(order)
	services.NotifyChange(database.ColOrders)

	log.Printf("✅ Commande %s enregistrée (%d€)", order.Reference, order.AmountTotal)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande enregistrée avec succès",
		"order":   order,
	})
}

// GetOrderByReference - GET /api/orders/:reference
// Page de confirmation côté client.
func GetOrderByReference(c *gin.Context) {
	var order models.Order
	err := database.Collection(database.ColOrders).
		FindOne(c.Request.Context(), bson.M{"reference": c.Param("reference")}).
		Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders - GET /api/admin/orders
func GetAllOrders(c *gin.Context) {
	ctx := c.Request.Context()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Collection(database.ColOrders).Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// UpdateOrderStatus - PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut de commande invalide"})
		return
	}

	res, err := database.Collection(database.ColOrders).UpdateByID(c.Request.Context(), id,
		bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	services.NotifyChange(database.ColOrders)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": req.Status})
}

func findOrderByID(c *gin.Context) (models.Order, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return models.Order{}, false
	}

	var order models.Order
	err = database.Collection(database.ColOrders).FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return models.Order{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return models.Order{}, false
	}
	return order, true
}

// OrderQRCode - GET /api/admin/orders/:id/qrcode
// QR de la référence, scannable au retrait en boutique.
func OrderQRCode(c *gin.Context) {
	order, ok := findOrderByID(c)
	if !ok {
		return
	}

	png, err := utils.OrderQRPNG(order.Reference)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// OrderInvoice - GET /api/admin/orders/:id/invoice
// Facture PDF rendue dans un Chrome headless.
func OrderInvoice(c *gin.Context) {
	order, ok := findOrderByID(c)
	if !ok {
		return
	}

	pdf, err := utils.RenderInvoicePDF(order)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", order.Reference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.Reference+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
