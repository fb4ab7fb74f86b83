package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// OrderController handles checkout and order management.
type OrderController struct {
	OrderCollection *mongo.Collection
	CartCollection  *mongo.Collection
	UserCollection  *mongo.Collection
	Catalogs        map[models.CatalogKind]*mongo.Collection
	Sequencer       OrderSequencer
	EmailService    *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, sequencer OrderSequencer, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	return &OrderController{
		OrderCollection: db.Collection("orders"),
		CartCollection:  db.Collection("carts"),
		UserCollection:  db.Collection("users"),
		Catalogs:        catalogCollections(client),
		Sequencer:       sequencer,
		EmailService:    emailService,
	}
}

// snapshotItem resolves one cart line against the live catalog and freezes
// name, image and price into an order line. The cart's selected pricing only
// picks a tier; the price always comes from the catalog as it stands now.
func (oc *OrderController) snapshotItem(ctx context.Context, line models.CartItem) (*models.OrderItem, error) {
	collection, ok := oc.Catalogs[line.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog kind %q", line.Kind)
	}

	var item models.CatalogItem
	if err := collection.FindOne(ctx, bson.M{"_id": line.ItemID}).Decode(&item); err != nil {
		return nil, fmt.Errorf("item %s no longer available", line.ItemID.Hex())
	}

	pricing, err := resolveTier(item, line.Kind, line.SelectedPricing)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", line.ItemID.Hex(), err)
	}

	return &models.OrderItem{
		Kind:            line.Kind,
		ItemID:          line.ItemID,
		Name:            item.Name,
		Image:           item.Image,
		SelectedPricing: pricing,
		Quantity:        line.Quantity,
		ItemTotal:       roundMoney(pricing.Price * float64(line.Quantity)),
	}, nil
}

// Create performs checkout: snapshot the cart against the current catalog,
// compute totals, assign the next order ID and clear the cart.
func (oc *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Address       models.Address `json:"address"`
		PaymentMethod string         `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !req.Address.Complete() {
		utils.RespondError(w, http.StatusBadRequest, "Shipping address is incomplete")
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(w, http.StatusBadRequest, "Unknown payment method")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var cart models.Cart
	err := oc.CartCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments || (err == nil && len(cart.Items) == 0) {
		utils.RespondError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	subtotal := 0.0
	for _, line := range cart.Items {
		snapshot, err := oc.snapshotItem(ctx, line)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, *snapshot)
		subtotal += snapshot.ItemTotal
	}

	totals := ComputeOrderTotals(subtotal)

	seq, err := oc.Sequencer.Next(ctx)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	now := time.Now()
	order := models.Order{
		OrderID:       FormatOrderID(now.Year(), seq),
		UserID:        userID,
		Items:         items,
		Address:       req.Address,
		OrderStatus:   models.OrderConfirmed,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      totals.Subtotal,
		ShippingCost:  totals.ShippingCost,
		Tax:           totals.Tax,
		TotalAmount:   totals.TotalAmount,
		CreatedAt:     now,
	}

	result, err := oc.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	// Clear the originating cart in place, not delete it.
	_, err = oc.CartCollection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": now}},
	)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	var user models.User
	if err := oc.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		go oc.EmailService.NotifyOrderConfirmed(user.Email, order)
	}

	utils.RespondJSON(w, http.StatusCreated, order, "Order created successfully")
}

// List retrieves the calling user's orders, newest first.
func (oc *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"user_id": userID}, optionsFindNewestFirst())
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, orders, "")
}

// GetByID retrieves one of the calling user's orders.
func (oc *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, order, "")
}

// Cancel lets a user cancel their own order while it is still confirmed.
func (oc *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Order
	err = oc.OrderCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID, "order_status": models.OrderConfirmed},
		bson.M{"$set": bson.M{"order_status": models.OrderCancelled}},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "No cancellable order found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated, "Order cancelled")
}

// ListAll retrieves every order, newest first (Admin only).
func (oc *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{}, optionsFindNewestFirst())
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, orders, "")
}

// UpdateStatus lets an admin move order and payment status (Admin only).
func (oc *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		OrderStatus   *string `json:"order_status"`
		PaymentStatus *string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{}
	if req.OrderStatus != nil {
		if !models.ValidOrderStatus(*req.OrderStatus) {
			utils.RespondError(w, http.StatusBadRequest, "Unknown order status")
			return
		}
		set["order_status"] = *req.OrderStatus
	}
	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*req.PaymentStatus) {
			utils.RespondError(w, http.StatusBadRequest, "Unknown payment status")
			return
		}
		set["payment_status"] = *req.PaymentStatus
	}
	if len(set) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Order
	err = oc.OrderCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, mongoReturnAfter()).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated, "Order updated")
}
