package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sawamani item types.
const (
	SawamaniLaddoo = "laddoo"
	SawamaniBarfi  = "barfi"
	SawamaniOther  = "other"
)

// ValidSawamaniType reports whether t is a known bulk-order item type.
func ValidSawamaniType(t string) bool {
	return t == SawamaniLaddoo || t == SawamaniBarfi || t == SawamaniOther
}

// SawamaniVariants is the fixed set of item variants offered on the bulk
// order form.
var SawamaniVariants = []string{
	"besan", "motichoor", "boondi", "mawa", "kaju", "dry_fruit", "desi_ghee", "plain",
}

// ValidSawamaniVariant reports whether v is one of the fixed variants.
func ValidSawamaniVariant(v string) bool {
	for _, known := range SawamaniVariants {
		if v == known {
			return true
		}
	}
	return false
}

// SawamaniItem is the fixed type/variant combination being ordered.
type SawamaniItem struct {
	Type    string `bson:"type" json:"type"`
	Variant string `bson:"variant" json:"variant"`
}

// PackingSelection is one packaging choice: how many boxes of a given
// packaging label and the weight they amount to.
type PackingSelection struct {
	BoxCount    int     `bson:"box_count" json:"boxCount"`
	TotalWeight float64 `bson:"total_weight" json:"totalWeight"`
}

// Sawamani is a bulk-order form submission. One-shot record: there is no
// update path and no status field.
type Sawamani struct {
	ID                primitive.ObjectID          `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string                      `bson:"name" json:"name"`
	PhoneNumber       string                      `bson:"phone_number" json:"phoneNumber"`
	Address           string                      `bson:"address" json:"address"`
	Item              SawamaniItem                `bson:"item" json:"item"`
	Date              time.Time                   `bson:"date" json:"date"`
	PackingSelections map[string]PackingSelection `bson:"packing_selections" json:"packingSelections"`
	TotalWeight       float64                     `bson:"total_weight" json:"totalWeight"`
	Message           string                      `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt         time.Time                   `bson:"created_at" json:"created_at"`
}
