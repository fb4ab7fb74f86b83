package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	OrderConfirmed = "confirmed"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	return s == OrderConfirmed || s == OrderDelivered || s == OrderCancelled
}

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentPaid
}

// Payment methods.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentUPI            = "upi"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCashOnDelivery || m == PaymentUPI
}

// OrderItem is a frozen copy of one cart line at checkout time. Name, image
// and price are snapshotted so later catalog edits never change the order.
type OrderItem struct {
	Kind            CatalogKind        `bson:"kind" json:"kind"`
	ItemID          primitive.ObjectID `bson:"item_id" json:"item_id"`
	Name            string             `bson:"name" json:"name"`
	Image           string             `bson:"image" json:"image"`
	SelectedPricing PricingTier        `bson:"selected_pricing" json:"selected_pricing"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	ItemTotal       float64            `bson:"item_total" json:"item_total"`
}

// Order is an immutable snapshot of a checkout transaction.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID       string             `bson:"order_id" json:"order_id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Address       Address            `bson:"address" json:"address"`
	OrderStatus   string             `bson:"order_status" json:"order_status"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	ShippingCost  float64            `bson:"shipping_cost" json:"shipping_cost"`
	Tax           float64            `bson:"tax" json:"tax"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
