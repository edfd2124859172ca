package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"
	"lunea_back_end/internal/services"
	"lunea_back_end/internal/utils"
)

// SubmitContact - POST /api/contact
func SubmitContact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	msg := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	if _, err := database.Collection(database.ColContacts).InsertOne(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi du message"})
		return
	}

	// 📤 Prévenir la boutique, sans bloquer la réponse
	go utils.SendContactNotification(msg)
	services.NotifyChange(database.ColContacts)

	c.JSON(http.StatusCreated, gin.H{"message": "Message envoyé, nous vous répondrons rapidement"})
}

// GetAllContacts - GET /api/admin/contacts
func GetAllContacts(c *gin.Context) {
	ctx := c.Request.Context()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Collection(database.ColContacts).Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture messages"})
		return
	}

	contacts := []models.ContactMessage{}
	if err := cursor.All(ctx, &contacts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "total": len(contacts)})
}

// MarkContactRead - PUT /api/admin/contacts/:id/read
func MarkContactRead(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID message invalide"})
		return
	}

	res, err := database.Collection(database.ColContacts).UpdateByID(c.Request.Context(), id,
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour message"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message introuvable"})
		return
	}

	services.NotifyChange(database.ColContacts)
	c.JSON(http.StatusOK, gin.H{"message": "Message marqué comme lu"})
}

// DeleteContact - DELETE /api/admin/contacts/:id
func DeleteContact(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID message invalide"})
		return
	}

	res, err := database.Collection(database.ColContacts).DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression message"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message introuvable"})
		return
	}

	services.NotifyChange(database.ColContacts)
	c.JSON(http.StatusOK, gin.H{"message": "Message supprimé"})
}
