package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// CatalogController serves one of the three catalog collections. Products
// and namkeens are tiered; boxes carry a flat price.
type CatalogController struct {
	Collection   *mongo.Collection
	Kind         models.CatalogKind
	Tiered       bool
	ImageService *utils.ImageService
}

// NewCatalogController creates a controller bound to the collection named
// after the kind ("products", "boxes", "namkeens").
func NewCatalogController(client *mongo.Client, kind models.CatalogKind, imageService *utils.ImageService) *CatalogController {
	collection := client.Database(utils.DatabaseName).Collection(string(kind) + "s")
	return &CatalogController{
		Collection:   collection,
		Kind:         kind,
		Tiered:       kind != models.KindBox,
		ImageService: imageService,
	}
}

// catalogItemRequest uses pointer fields so partial updates can tell an
// omitted field from one set to its zero value.
type catalogItemRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Image       *string               `json:"image"`
	Price       *float64              `json:"price"`
	Pricing     *[]models.PricingTier `json:"pricing"`
	Tag         *string               `json:"tag"`
}

// validateTiers checks one pricing tier list against the create/update rules.
func validateTiers(tiers []models.PricingTier) error {
	if len(tiers) == 0 {
		return errors.New("pricing must contain at least one tier")
	}
	for i, tier := range tiers {
		if tier.Quantity <= 0 {
			return fmt.Errorf("pricing[%d]: quantity must be positive", i)
		}
		if tier.Price <= 0 {
			return fmt.Errorf("pricing[%d]: price must be positive", i)
		}
		if !models.ValidUnit(tier.Unit) {
			return fmt.Errorf("pricing[%d]: unknown unit %q", i, tier.Unit)
		}
	}
	return nil
}

// validateCreate checks that every required field is present and well formed
// for a create. Returns the assembled item on success.
func (cc *CatalogController) validateCreate(req catalogItemRequest) (*models.CatalogItem, error) {
	if req.Name == nil || *req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Description == nil || *req.Description == "" {
		return nil, errors.New("description is required")
	}
	if req.Image == nil || *req.Image == "" {
		return nil, errors.New("image is required")
	}

	item := &models.CatalogItem{
		Name:        *req.Name,
		Description: *req.Description,
		Image:       *req.Image,
		Tag:         models.TagNone,
	}

	if cc.Tiered {
		if req.Pricing == nil {
			return nil, errors.New("pricing is required")
		}
		if err := validateTiers(*req.Pricing); err != nil {
			return nil, err
		}
		item.Pricing = *req.Pricing
	} else {
		if req.Price == nil {
			return nil, errors.New("price is required")
		}
		if *req.Price <= 0 {
			return nil, errors.New("price must be positive")
		}
		item.Price = *req.Price
	}

	if req.Tag != nil {
		if !models.ValidTag(*req.Tag) {
			return nil, fmt.Errorf("unknown tag %q", *req.Tag)
		}
		item.Tag = *req.Tag
	}
	return item, nil
}

// buildUpdate turns the supplied fields of a partial update into a $set
// document. Omitted fields never appear in the result.
func (cc *CatalogController) buildUpdate(req catalogItemRequest) (bson.M, error) {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.Price != nil {
		if cc.Tiered {
			return nil, errors.New("flat price not supported for tiered items")
		}
		if *req.Price <= 0 {
			return nil, errors.New("price must be positive")
		}
		set["price"] = *req.Price
	}
	if req.Pricing != nil {
		if !cc.Tiered {
			return nil, errors.New("pricing tiers not supported for this item")
		}
		if err := validateTiers(*req.Pricing); err != nil {
			return nil, err
		}
		set["pricing"] = *req.Pricing
	}
	if req.Tag != nil {
		if !models.ValidTag(*req.Tag) {
			return nil, fmt.Errorf("unknown tag %q", *req.Tag)
		}
		set["tag"] = *req.Tag
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	return set, nil
}

// resolveImage relocates a base64 payload through the image service; plain
// URLs pass through untouched.
func (cc *CatalogController) resolveImage(ctx context.Context, image string) (string, error) {
	if !utils.IsDataURI(image) {
		return image, nil
	}
	return cc.ImageService.Upload(ctx, image)
}

// List retrieves all items of the kind, optionally filtered by placement tag.
func (cc *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		if !models.ValidTag(tag) {
			utils.RespondError(w, http.StatusBadRequest, "Unknown tag filter")
			return
		}
		filter["tag"] = tag
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, filter)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	items := []models.CatalogItem{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, items, "")
}

// GetByID retrieves a single item by ID
func (cc *CatalogController) GetByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var item models.CatalogItem
	err = cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, item, "")
}

// Create handles adding a new catalog item (Admin only)
func (cc *CatalogController) Create(w http.ResponseWriter, r *http.Request) {
	var req catalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	item, err := cc.validateCreate(req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	image, err := cc.resolveImage(ctx, item.Image)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Image upload failed")
		return
	}
	item.Image = image

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := cc.Collection.InsertOne(ctx, item)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, item, "Item created")
}

// Update handles a partial update of a catalog item (Admin only). Only the
// fields present in the body are written.
func (cc *CatalogController) Update(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req catalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set, err := cc.buildUpdate(req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if image, ok := set["image"].(string); ok {
		resolved, err := cc.resolveImage(ctx, image)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Image upload failed")
			return
		}
		set["image"] = resolved
	}
	set["updated_at"] = time.Now()

	var updated models.CatalogItem
	err = cc.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated, "Item updated")
}

// Delete handles deleting a catalog item (Admin only). The stored image is
// released best-effort; a release failure is logged, never surfaced.
func (cc *CatalogController) Delete(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		rawID = mux.Vars(r)["id"]
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var item models.CatalogItem
	err = cc.Collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	if item.Image != "" && !utils.IsDataURI(item.Image) {
		if err := cc.ImageService.Release(ctx, item.Image); err != nil {
			log.Printf("Failed to release image for %s %s: %v", cc.Kind, id.Hex(), err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, nil, "Item deleted")
}
