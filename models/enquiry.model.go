package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enquiry statuses. Status is the only mutable field after creation and any
// transition is allowed.
const (
	EnquiryNew        = "new"
	EnquiryInProgress = "in-progress"
	EnquiryCompleted  = "completed"
	EnquiryCancelled  = "cancelled"
)

// EnquiryStatuses lists the four states in a fixed order, used by the stats
// endpoint so absent statuses still report zero.
var EnquiryStatuses = []string{EnquiryNew, EnquiryInProgress, EnquiryCompleted, EnquiryCancelled}

// ValidEnquiryStatus reports whether s is one of the four enquiry states.
func ValidEnquiryStatus(s string) bool {
	for _, known := range EnquiryStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Enquiry is a customer contact request about a catalog item.
type Enquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Product   string             `bson:"product" json:"product"`
	Quantity  string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Price     string             `bson:"price,omitempty" json:"price,omitempty"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// EnquiryStats is the admin dashboard summary computed by the enquiry store.
type EnquiryStats struct {
	Total        int64            `json:"total"`
	StatusStats  map[string]int64 `json:"statusStats"`
	CreatedToday int64            `json:"createdToday"`
	LastSevenDay int64            `json:"lastSevenDays"`
}
