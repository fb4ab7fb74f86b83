package controllers

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-sweetshop/models"
	"go-sweetshop/utils"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func mongoReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func optionsFindNewestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// catalogCollections maps each catalog kind to its collection, for the
// controllers that resolve cart references against the live catalog.
func catalogCollections(client *mongo.Client) map[models.CatalogKind]*mongo.Collection {
	db := client.Database(utils.DatabaseName)
	return map[models.CatalogKind]*mongo.Collection{
		models.KindProduct: db.Collection("products"),
		models.KindBox:     db.Collection("boxes"),
		models.KindNamkeen: db.Collection("namkeens"),
	}
}
