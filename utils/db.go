package utils

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is the Mongo database all collections live in.
const DatabaseName = "sweetshop"

// ConnectDB connects to MongoDB using MONGO_URI and verifies the connection
// with a ping.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB")
	return client
}

// EnsureIndexes creates the indexes the stores rely on: one cart per user,
// unique human-readable order IDs, and unique user emails.
func EnsureIndexes(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := client.Database(DatabaseName)
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"carts":  {Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		"orders": {Keys: bson.D{{Key: "order_id", Value: 1}}, Options: unique},
		"users":  {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	}

	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			log.Fatalf("Failed to create index on %s: %v", coll, err)
		}
	}
}
