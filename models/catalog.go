package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogKind identifies which catalog collection an item or a cart
// reference points to.
type CatalogKind string

const (
	KindProduct CatalogKind = "product"
	KindBox     CatalogKind = "box"
	KindNamkeen CatalogKind = "namkeen"
)

// ValidCatalogKind reports whether k names one of the three catalogs.
func ValidCatalogKind(k CatalogKind) bool {
	return k == KindProduct || k == KindBox || k == KindNamkeen
}

// Pricing units available for a tier.
const (
	UnitGram  = "gm"
	UnitKilo  = "kg"
	UnitPiece = "piece"
	UnitDozen = "dozen"
)

// ValidUnit reports whether u is one of the four pricing units.
func ValidUnit(u string) bool {
	switch u {
	case UnitGram, UnitKilo, UnitPiece, UnitDozen:
		return true
	}
	return false
}

// Storefront placement tags.
const (
	TagPopular = "popular"
	TagLatest  = "latest"
	TagNone    = "none"
)

// ValidTag reports whether t is a known placement tag.
func ValidTag(t string) bool {
	return t == TagPopular || t == TagLatest || t == TagNone
}

// PricingTier is one purchasable size/quantity option of a tiered item.
type PricingTier struct {
	Quantity int     `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"`
	Price    float64 `bson:"price" json:"price"`
}

// CatalogItem is a sellable entity in one of the three catalogs. Boxes carry
// a flat Price; products and namkeens carry a non-empty Pricing tier list.
type CatalogItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	Pricing     []PricingTier      `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Tag         string             `bson:"tag" json:"tag"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
