package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-sweetshop/models"
)

// Shipping is free at or above the threshold; below it a flat charge applies.
// Tax is applied to the subtotal only.
const (
	FreeShippingThreshold = 500.0
	FlatShippingCharge    = 50.0
	TaxRate               = 0.18
)

// OrderTotals is the monetary breakdown of a checkout.
type OrderTotals struct {
	Subtotal     float64
	ShippingCost float64
	Tax          float64
	TotalAmount  float64
}

// ComputeOrderTotals derives shipping, tax and total from a subtotal.
func ComputeOrderTotals(subtotal float64) OrderTotals {
	shipping := FlatShippingCharge
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	tax := roundMoney(subtotal * TaxRate)
	return OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		// The total must equal the exact sum of the stored components.
		// Rounding the sum again can shift it by an ulp and break that.
		TotalAmount: subtotal + shipping + tax,
	}
}

// resolveTier matches a cart line's tier selection (quantity and unit)
// against the item's current catalog pricing and returns the tier carrying
// the catalog's price. The price a cart line may have stored is never
// trusted.
func resolveTier(item models.CatalogItem, kind models.CatalogKind, selected *models.PricingTier) (models.PricingTier, error) {
	if kind == models.KindBox {
		return models.PricingTier{Quantity: 1, Unit: models.UnitPiece, Price: item.Price}, nil
	}
	if selected == nil {
		if len(item.Pricing) == 0 {
			return models.PricingTier{}, errors.New("item has no pricing")
		}
		return item.Pricing[0], nil
	}
	for _, tier := range item.Pricing {
		if tier.Quantity == selected.Quantity && tier.Unit == selected.Unit {
			return tier, nil
		}
	}
	return models.PricingTier{}, fmt.Errorf("pricing option %d %s is no longer offered", selected.Quantity, selected.Unit)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatOrderID renders the human-readable identifier for a sequence number.
func FormatOrderID(year int, seq int64) string {
	return fmt.Sprintf("ORD-%d-%04d", year, seq)
}

// OrderSequencer hands out strictly increasing sequence numbers. The store
// implementation must stay atomic so concurrent checkouts never share one.
type OrderSequencer interface {
	Next(ctx context.Context) (int64, error)
}

// counterSequencer backs the sequencer with a single counter document,
// incremented atomically with FindOneAndUpdate.
type counterSequencer struct {
	Collection *mongo.Collection
}

// NewOrderSequencer returns the Mongo-backed sequencer used in production.
func NewOrderSequencer(client *mongo.Client, database string) OrderSequencer {
	return &counterSequencer{
		Collection: client.Database(database).Collection("counters"),
	}
}

func (cs *counterSequencer) Next(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := cs.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "orders"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
