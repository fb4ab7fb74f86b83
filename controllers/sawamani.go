package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// SawamaniController handles the bulk-order form: public creation and the
// filtered, paginated admin listing.
type SawamaniController struct {
	Collection *mongo.Collection
}

// NewSawamaniController creates a new SawamaniController
func NewSawamaniController(client *mongo.Client) *SawamaniController {
	collection := client.Database(utils.DatabaseName).Collection("sawamanis")
	return &SawamaniController{
		Collection: collection,
	}
}

// validateSawamani checks a new bulk order against the form rules. The date
// check runs against wall-clock time at submission.
func validateSawamani(s models.Sawamani, now time.Time) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if !phonePattern.MatchString(s.PhoneNumber) {
		return errors.New("phoneNumber must be a 10-digit number")
	}
	if s.Address == "" {
		return errors.New("address is required")
	}
	if !models.ValidSawamaniType(s.Item.Type) {
		return errors.New("unknown item type")
	}
	if !models.ValidSawamaniVariant(s.Item.Variant) {
		return errors.New("unknown item variant")
	}
	if s.Date.IsZero() {
		return errors.New("date is required")
	}
	if s.Date.Before(now) {
		return errors.New("date cannot be in the past")
	}
	if len(s.PackingSelections) == 0 {
		return errors.New("packingSelections is required")
	}
	for label, selection := range s.PackingSelections {
		if label == "" || selection.BoxCount < 0 || selection.TotalWeight < 0 {
			return errors.New("invalid packing selection")
		}
	}
	return nil
}

// Create records a bulk order. There is no update path; the record is
// one-shot.
func (sc *SawamaniController) Create(w http.ResponseWriter, r *http.Request) {
	var sawamani models.Sawamani
	if err := json.NewDecoder(r.Body).Decode(&sawamani); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := validateSawamani(sawamani, time.Now()); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sawamani.ID = primitive.NilObjectID
	sawamani.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := sc.Collection.InsertOne(ctx, sawamani)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	sawamani.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, sawamani, "Sawamani order placed")
}

// sawamaniFilter builds the Mongo filter from the optional query parameters.
// Phone matches as a case-insensitive substring, item type exactly, and the
// date range is inclusive on both ends.
func sawamaniFilter(phone, itemType, startDate, endDate string) (bson.M, error) {
	filter := bson.M{}
	if phone != "" {
		filter["phone_number"] = bson.M{"$regex": regexp.QuoteMeta(phone), "$options": "i"}
	}
	if itemType != "" {
		if !models.ValidSawamaniType(itemType) {
			return nil, errors.New("unknown item type filter")
		}
		filter["item.type"] = itemType
	}

	dateRange := bson.M{}
	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		dateRange["$gte"] = start
	}
	if endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		// Inclusive upper bound: push to the end of the day.
		dateRange["$lte"] = end.Add(24*time.Hour - time.Nanosecond)
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	return filter, nil
}

// Pagination is the page metadata reported by the listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// paginate derives the page metadata from a total count and page/limit.
func paginate(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalOrders: total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}

// parsePositiveInt parses a query parameter, falling back when absent or
// malformed.
func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// List retrieves bulk orders with optional filters and page/limit pagination
// (Admin only).
func (sc *SawamaniController) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := sawamaniFilter(query.Get("phone"), query.Get("itemType"), query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := parsePositiveInt(query.Get("page"), 1)
	limit := parsePositiveInt(query.Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	total, err := sc.Collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := sc.Collection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Sawamani{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"pagination": paginate(total, page, limit),
	}, "")
}
