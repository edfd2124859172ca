package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"lunea_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound : aucun panier enregistré sous cette clé.
var ErrNotFound = errors.New("panier introuvable")

// Backend est un store clé → payload JSON. Deux implémentations : Mongo
// (persistant) et Redis (scope session, TTL). Le Store écrit toujours sur
// les deux et lit le premier disponible, persistant d'abord : si l'un des
// deux est vidé ou indisponible, l'autre prend le relais.
type Backend interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, payload string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	persistent Backend
	session    Backend
}

func NewStore(persistent, session Backend) *Store {
	return &Store{persistent: persistent, session: session}
}

func cartKey(token string) string   { return "cartItems:" + token }
func buyNowKey(token string) string { return "buyNowItem:" + token }

// Load lit le panier en préférant le store persistant. Toute erreur de
// lecture ou de décodage dégrade en panier vide, jamais en erreur.
func (s *Store) Load(ctx context.Context, token string) []models.CartItem {
	for _, b := range []Backend{s.persistent, s.session} {
		payload, err := b.Load(ctx, cartKey(token))
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Printf("⚠️ Lecture panier impossible: %v", err)
			}
			continue
		}
		var items []models.CartItem
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			log.Printf("⚠️ Panier corrompu sous %s, ignoré: %v", cartKey(token), err)
			continue
		}
		return items
	}
	return []models.CartItem{}
}

// Save écrit le panier sur les deux stores. Un seul store en panne est
// toléré (loggé) ; l'erreur n'est remontée que si les deux échouent.
func (s *Store) Save(ctx context.Context, token string, items []models.CartItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	errPersistent := s.persistent.Save(ctx, cartKey(token), string(payload))
	errSession := s.session.Save(ctx, cartKey(token), string(payload))
	if errPersistent != nil && errSession != nil {
		return errPersistent
	}
	if errPersistent != nil {
		log.Printf("⚠️ Écriture panier persistant échouée: %v", errPersistent)
	}
	if errSession != nil {
		log.Printf("⚠️ Écriture panier session échouée: %v", errSession)
	}
	return nil
}

// Clear supprime le panier des deux stores.
func (s *Store) Clear(ctx context.Context, token string) error {
	errPersistent := s.persistent.Delete(ctx, cartKey(token))
	errSession := s.session.Delete(ctx, cartKey(token))
	if errPersistent != nil && errSession != nil {
		return errPersistent
	}
	return nil
}

// SaveBuyNow écrase l'article "achat immédiat". Il ne vit que dans le
// store session : c'est un enregistrement transitoire, limité à une
// session de checkout, jamais fusionné dans le panier.
func (s *Store) SaveBuyNow(ctx context.Context, token string, item models.CartItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.session.Save(ctx, buyNowKey(token), string(payload))
}

func (s *Store) LoadBuyNow(ctx context.Context, token string) (models.CartItem, bool) {
	payload, err := s.session.Load(ctx, buyNowKey(token))
	if err != nil {
		return models.CartItem{}, false
	}
	var item models.CartItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		log.Printf("⚠️ Article buy-now corrompu, ignoré: %v", err)
		return models.CartItem{}, false
	}
	return item, true
}

func (s *Store) ClearBuyNow(ctx context.Context, token string) error {
	return s.session.Delete(ctx, buyNowKey(token))
}

// --- Backend Redis (scope session, TTL 30 jours) ---

type RedisBackend struct {
	Client *redis.Client
	TTL    time.Duration
}

func (b *RedisBackend) Load(ctx context.Context, key string) (string, error) {
	payload, err := b.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return payload, err
}

func (b *RedisBackend) Save(ctx context.Context, key, payload string) error {
	return b.Client.Set(ctx, key, payload, b.TTL).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.Client.Del(ctx, key).Err()
}

// --- Backend Mongo (persistant) ---

type MongoBackend struct {
	Collection *mongo.Collection
}

type cartDocument struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (b *MongoBackend) Load(ctx context.Context, key string) (string, error) {
	var doc cartDocument
	err := b.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Payload, nil
}

func (b *MongoBackend) Save(ctx context.Context, key, payload string) error {
	doc := cartDocument{ID: key, Payload: payload, UpdatedAt: time.Now()}
	_, err := b.Collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	_, err := b.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
