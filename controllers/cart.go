package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-sweetshop/middleware"
	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// CartController handles cart-related requests. Every operation requires a
// resolved user identity.
type CartController struct {
	Collection *mongo.Collection
	Catalogs   map[models.CatalogKind]*mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	collection := client.Database(utils.DatabaseName).Collection("carts")
	return &CartController{
		Collection: collection,
		Catalogs:   catalogCollections(client),
	}
}

// userIDFromRequest resolves the calling user's ObjectID from the JWT claims
// attached by the auth middleware.
func userIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// Get retrieves the user's cart. A user who never wrote a cart gets an empty
// one back rather than a 404.
func (cc *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var cart models.Cart
	err := cc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, cart, "")
}

// UpsertItem adds a catalog reference to the user's cart, or bumps its
// quantity if the same reference is already there. The cart itself is
// created on first write.
func (cc *CartController) UpsertItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Kind            models.CatalogKind  `json:"kind"`
		ItemID          string              `json:"item_id"`
		Quantity        int                 `json:"quantity"`
		SelectedPricing *models.PricingTier `json:"selected_pricing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if !models.ValidCatalogKind(req.Kind) {
		utils.RespondError(w, http.StatusBadRequest, "Unknown catalog kind")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	if req.Quantity < 1 {
		utils.RespondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}
	if req.SelectedPricing != nil && !models.ValidUnit(req.SelectedPricing.Unit) {
		utils.RespondError(w, http.StatusBadRequest, "Unknown pricing unit")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The reference must point at a live catalog item, and any selected
	// pricing must be a tier that item actually offers.
	var catalogItem models.CatalogItem
	err = cc.Catalogs[req.Kind].FindOne(ctx, bson.M{"_id": itemID}).Decode(&catalogItem)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	item := models.CartItem{
		Kind:     req.Kind,
		ItemID:   itemID,
		Quantity: req.Quantity,
	}
	if req.SelectedPricing != nil {
		resolved, err := resolveTier(catalogItem, req.Kind, req.SelectedPricing)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		item.SelectedPricing = &resolved
	}

	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondInternal(w, err)
		return
	}

	merged := false
	for i, existing := range cart.Items {
		if existing.Kind == item.Kind && existing.ItemID == item.ItemID {
			cart.Items[i].Quantity += item.Quantity
			if item.SelectedPricing != nil {
				cart.Items[i].SelectedPricing = item.SelectedPricing
			}
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := cc.writeItems(ctx, userID, cart.Items); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, nil, "Item added to cart")
}

// RemoveItem deletes one catalog reference from the cart.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	kind := models.CatalogKind(params["kind"])
	if !models.ValidCatalogKind(kind) {
		utils.RespondError(w, http.StatusBadRequest, "Unknown catalog kind")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Cart not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	remaining := []models.CartItem{}
	for _, item := range cart.Items {
		if item.Kind == kind && item.ItemID == itemID {
			continue
		}
		remaining = append(remaining, item)
	}

	if err := cc.writeItems(ctx, userID, remaining); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, nil, "Item removed from cart")
}

// Clear empties the user's cart in place. If no cart exists yet, an empty
// one is created instead of failing.
func (cc *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := cc.writeItems(ctx, userID, []models.CartItem{}); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, nil, "Cart cleared")
}

// writeItems upserts the full item list of the user's cart.
func (cc *CartController) writeItems(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	_, err := cc.Collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}
