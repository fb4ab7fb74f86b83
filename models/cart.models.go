package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a reference into one of the catalog collections, tagged with
// the collection kind. Prices are resolved against the live catalog at
// checkout, never stored here.
type CartItem struct {
	Kind            CatalogKind        `bson:"kind" json:"kind"`
	ItemID          primitive.ObjectID `bson:"item_id" json:"item_id"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	SelectedPricing *PricingTier       `bson:"selected_pricing,omitempty" json:"selected_pricing,omitempty"`
}

// Cart is a user's shopping cart. One cart per user, enforced by a unique
// index on user_id. Cleared in place rather than deleted.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
