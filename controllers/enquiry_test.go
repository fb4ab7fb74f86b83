package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"go-sweetshop/models"
)

func TestValidateEnquiry(t *testing.T) {
	valid := models.Enquiry{
		Name:    "Ravi Kumar",
		Email:   "ravi@example.com",
		Phone:   "9876543210",
		Product: "Kaju Katli",
		Message: "Do you deliver to Jaipur?",
	}

	t.Run("accepts a well-formed enquiry", func(t *testing.T) {
		assert.NoError(t, validateEnquiry(valid))
	})

	t.Run("rejects bad email", func(t *testing.T) {
		e := valid
		e.Email = "not-an-email"
		assert.Error(t, validateEnquiry(e))
	})

	t.Run("rejects short phone", func(t *testing.T) {
		e := valid
		e.Phone = "12345"
		assert.Error(t, validateEnquiry(e))
	})

	t.Run("rejects single-character name", func(t *testing.T) {
		e := valid
		e.Name = "R"
		assert.Error(t, validateEnquiry(e))
	})

	t.Run("rejects missing product reference", func(t *testing.T) {
		e := valid
		e.Product = ""
		assert.Error(t, validateEnquiry(e))
	})

	t.Run("rejects oversized message", func(t *testing.T) {
		e := valid
		for len(e.Message) <= 1000 {
			e.Message += "x"
		}
		assert.Error(t, validateEnquiry(e))
	})
}

func TestEnquiryUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ec := &EnquiryController{}
	router := mux.NewRouter()
	router.HandleFunc("/enquiries/{id}", ec.UpdateStatus).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/enquiries/64a1f0c2e4b0a1b2c3d4e5f6", map[string]string{"status": "archived"})
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnquiryUpdateStatusRejectsMalformedID(t *testing.T) {
	ec := &EnquiryController{}
	router := mux.NewRouter()
	router.HandleFunc("/enquiries/{id}", ec.UpdateStatus).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/enquiries/nope", map[string]string{"status": "completed"})
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsWindow(t *testing.T) {
	now := time.Date(2026, time.August, 28, 15, 30, 45, 0, time.Local)
	startOfDay, weekAgo := statsWindow(now)

	assert.Equal(t, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.Local), startOfDay)
	assert.Equal(t, now.AddDate(0, 0, -7), weekAgo)
	assert.True(t, startOfDay.Before(now))
}

func TestEnquiryStatsAssembly(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("status counts sum to the total and absent statuses report zero", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		facetDoc := bson.D{
			{Key: "byStatus", Value: bson.A{
				bson.D{{Key: "_id", Value: "new"}, {Key: "count", Value: 3}},
				bson.D{{Key: "_id", Value: "completed"}, {Key: "count", Value: 2}},
			}},
			{Key: "today", Value: bson.A{bson.D{{Key: "count", Value: 1}}}},
			{Key: "week", Value: bson.A{bson.D{{Key: "count", Value: 4}}}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, facetDoc))

		ec := &EnquiryController{Collection: mt.Coll}
		rec := httptest.NewRecorder()
		ec.Stats(rec, httptest.NewRequest(http.MethodGet, "/enquiries/stats", nil))

		require.Equal(mt, http.StatusOK, rec.Code)

		var resp struct {
			Success bool                `json:"success"`
			Data    models.EnquiryStats `json:"data"`
		}
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(mt, resp.Success)

		stats := resp.Data
		assert.Equal(mt, int64(5), stats.Total)

		var sum int64
		for _, status := range models.EnquiryStatuses {
			count, ok := stats.StatusStats[status]
			assert.True(mt, ok, "status %q missing from stats", status)
			sum += count
		}
		assert.Equal(mt, stats.Total, sum)
		assert.Equal(mt, int64(0), stats.StatusStats["in-progress"])
		assert.Equal(mt, int64(0), stats.StatusStats["cancelled"])
		assert.Equal(mt, int64(1), stats.CreatedToday)
		assert.Equal(mt, int64(4), stats.LastSevenDay)
	})
}
