package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lunea_back_end/internal/cache"
	"lunea_back_end/internal/cart"
	"lunea_back_end/internal/database"
	"lunea_back_end/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// Chargeurs de snapshot par collection. Chaque notification déclenche une
// relecture complète : le remplacement du snapshot est atomique, on ne
// pousse jamais d'état partiel.
var liveLoaders = map[string]func(ctx context.Context) (any, error){
	database.ColProducts: func(ctx context.Context) (any, error) {
		return cache.Products(ctx)
	},
	database.ColDiscounts: func(ctx context.Context) (any, error) {
		return cache.Discounts(ctx)
	},
	database.ColOrders: func(ctx context.Context) (any, error) {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := database.Collection(database.ColOrders).Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, err
		}
		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			return nil, err
		}
		return orders, nil
	},
	database.ColContacts: func(ctx context.Context) (any, error) {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := database.Collection(database.ColContacts).Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, err
		}
		contacts := []models.ContactMessage{}
		if err := cursor.All(ctx, &contacts); err != nil {
			return nil, err
		}
		return contacts, nil
	},
}

// Les collections d'administration ne sont servies que derrière le
// middleware admin ; les deux collections vitrine sont publiques.
var adminOnlyCollections = map[string]bool{
	database.ColOrders:   true,
	database.ColContacts: true,
}

// LiveCollection - GET /api/live/:collection (et /api/admin/live/:collection)
// Abonne le client aux snapshots temps réel d'une collection : snapshot
// initial à la connexion, puis snapshot complet à chaque changement.
func LiveCollection(c *gin.Context) {
	name := c.Param("collection")
	loader, ok := liveLoaders[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection inconnue"})
		return
	}
	if adminOnlyCollections[name] && c.GetString("user_id") == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// S'abonner au canal Redis de la collection
	pubsub := database.Redis.Subscribe(ctx, "live:"+name)
	defer pubsub.Close()
	ch := pubsub.Channel()

	sendSnapshot := func() error {
		docs, err := loader(ctx)
		if err != nil {
			log.Printf("⚠️ Lecture snapshot %s échouée: %v", name, err)
			return nil // on réessaiera à la prochaine notification
		}
		return conn.WriteJSON(map[string]any{
			"type":       "snapshot",
			"collection": name,
			"docs":       docs,
		})
	}

	// Snapshot initial à la connexion
	if err := sendSnapshot(); err != nil {
		return
	}

	// Détection de déconnexion côté client
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			if err := sendSnapshot(); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// CartSocket - GET /api/cart/ws
// Synchronisation temps réel du panier entre onglets d'un même visiteur.
func CartSocket(c *gin.Context) {
	token := cartToken(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+token)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]any{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	store := cartStore()
	sendCart := func() error {
		items := store.Load(ctx, token)
		return conn.WriteJSON(map[string]any{
			"type":    "cart_updated",
			"items":   items,
			"total":   cart.Total(items),
			"savings": cart.TotalSavings(items),
			"count":   cart.Count(items),
		})
	}

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			if err := sendCart(); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
