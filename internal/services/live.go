package services

import (
	"context"
	"log"

	"lunea_back_end/internal/database"
)

// Le store pousse les snapshots de collections aux abonnés via Redis
// pub/sub : chaque écriture publie sur le canal de sa collection, et les
// sockets abonnés relisent la collection entière. Le remplacement est
// atomique, on ne pousse jamais de snapshot partiel.

// NotifyChange signale qu'une collection a changé.
func NotifyChange(collection string) {
	if err := database.Redis.Publish(context.Background(), "live:"+collection, "updated").Err(); err != nil {
		log.Printf("⚠️ Publication live:%s échouée: %v", collection, err)
	}
}

// NotifyCart signale qu'un panier a changé (synchronisation temps réel).
func NotifyCart(token string) {
	if err := database.Redis.Publish(context.Background(), "cart:"+token, "updated").Err(); err != nil {
		log.Printf("⚠️ Publication cart:%s échouée: %v", token, err)
	}
}
