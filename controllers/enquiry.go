package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// EnquiryController handles customer contact requests and the admin stats
// view over them.
type EnquiryController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
}

// NewEnquiryController creates a new EnquiryController
func NewEnquiryController(client *mongo.Client, emailService *utils.EmailService) *EnquiryController {
	collection := client.Database(utils.DatabaseName).Collection("enquiries")
	return &EnquiryController{
		Collection:   collection,
		EmailService: emailService,
	}
}

// validateEnquiry checks formats and length bounds for a new enquiry.
func validateEnquiry(e models.Enquiry) error {
	if len(e.Name) < 2 || len(e.Name) > 100 {
		return errors.New("name must be between 2 and 100 characters")
	}
	if !emailPattern.MatchString(e.Email) {
		return errors.New("invalid email format")
	}
	if !phonePattern.MatchString(e.Phone) {
		return errors.New("phone must be a 10-digit number")
	}
	if e.Product == "" || len(e.Product) > 200 {
		return errors.New("product reference is required and at most 200 characters")
	}
	if len(e.Quantity) > 50 || len(e.Price) > 50 {
		return errors.New("quantity and price must be at most 50 characters")
	}
	if len(e.Message) > 1000 {
		return errors.New("message must be at most 1000 characters")
	}
	return nil
}

// Create records a new enquiry with status "new" and forwards it to the shop
// inbox asynchronously.
func (ec *EnquiryController) Create(w http.ResponseWriter, r *http.Request) {
	var enquiry models.Enquiry
	if err := json.NewDecoder(r.Body).Decode(&enquiry); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := validateEnquiry(enquiry); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enquiry.ID = primitive.NilObjectID
	enquiry.Status = models.EnquiryNew
	enquiry.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := ec.Collection.InsertOne(ctx, enquiry)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	enquiry.ID = result.InsertedID.(primitive.ObjectID)

	go ec.EmailService.NotifyEnquiryReceived(enquiry)

	utils.RespondJSON(w, http.StatusCreated, enquiry, "Enquiry received")
}

// List retrieves enquiries, newest first, optionally filtered by status
// (Admin only).
func (ec *EnquiryController) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidEnquiryStatus(status) {
			utils.RespondError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	opts := optionsFindNewestFirst()
	cursor, err := ec.Collection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	enquiries := []models.Enquiry{}
	if err := cursor.All(ctx, &enquiries); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, enquiries, "")
}

// GetByID retrieves a single enquiry (Admin only).
func (ec *EnquiryController) GetByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid enquiry ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var enquiry models.Enquiry
	err = ec.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enquiry)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Enquiry not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, enquiry, "")
}

// UpdateStatus moves an enquiry to another state (Admin only). Any state is
// reachable from any other; the enum is the only guard.
func (ec *EnquiryController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid enquiry ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !models.ValidEnquiryStatus(req.Status) {
		utils.RespondError(w, http.StatusBadRequest, "Unknown enquiry status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Enquiry
	err = ec.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status}},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Enquiry not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated, "Status updated")
}

// statsWindow returns the local-midnight and trailing-7-day boundaries used
// by Stats.
func statsWindow(now time.Time) (startOfDay, weekAgo time.Time) {
	startOfDay = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo = now.AddDate(0, 0, -7)
	return startOfDay, weekAgo
}

// Stats computes the admin dashboard summary in a single aggregation pass
// (Admin only).
func (ec *EnquiryController) Stats(w http.ResponseWriter, r *http.Request) {
	startOfDay, weekAgo := statsWindow(time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"byStatus": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
			},
			"today": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": startOfDay}}},
				bson.M{"$count": "count"},
			},
			"week": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": weekAgo}}},
				bson.M{"$count": "count"},
			},
		}}},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := ec.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ByStatus []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"byStatus"`
		Today []struct {
			Count int64 `bson:"count"`
		} `bson:"today"`
		Week []struct {
			Count int64 `bson:"count"`
		} `bson:"week"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		utils.RespondInternal(w, err)
		return
	}
	if len(raw) == 0 {
		utils.RespondInternal(w, errors.New("empty stats aggregation result"))
		return
	}

	stats := models.EnquiryStats{StatusStats: map[string]int64{}}
	for _, status := range models.EnquiryStatuses {
		stats.StatusStats[status] = 0
	}
	for _, group := range raw[0].ByStatus {
		stats.StatusStats[group.ID] = group.Count
		stats.Total += group.Count
	}
	if len(raw[0].Today) > 0 {
		stats.CreatedToday = raw[0].Today[0].Count
	}
	if len(raw[0].Week) > 0 {
		stats.LastSevenDay = raw[0].Week[0].Count
	}

	utils.RespondJSON(w, http.StatusOK, stats, "")
}
