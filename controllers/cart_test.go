package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"go-sweetshop/middleware"
	"go-sweetshop/models"
	"go-sweetshop/utils"
)

// withAuth attaches a freshly signed user token to the request.
func withAuth(t *testing.T, req *http.Request, role string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT(primitive.NewObjectID().Hex(), "user@example.com", role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCartRequiresIdentity(t *testing.T) {
	cc := &CartController{}

	handlers := map[string]http.HandlerFunc{
		"get":    cc.Get,
		"upsert": cc.UpsertItem,
		"clear":  cc.Clear,
	}

	for name, handler := range handlers {
		t.Run(name+" without token is unauthorized", func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := middleware.AuthMiddleware(handler)
			wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCartUpsertValidation(t *testing.T) {
	cc := &CartController{}
	handler := middleware.AuthMiddleware(http.HandlerFunc(cc.UpsertItem))

	itemID := primitive.NewObjectID().Hex()

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "rejects zero quantity",
			body: map[string]interface{}{"kind": "product", "item_id": itemID, "quantity": 0},
		},
		{
			name: "rejects unknown kind",
			body: map[string]interface{}{"kind": "hamper", "item_id": itemID, "quantity": 1},
		},
		{
			name: "rejects malformed item id",
			body: map[string]interface{}{"kind": "product", "item_id": "xyz", "quantity": 1},
		},
		{
			name: "rejects unknown pricing unit",
			body: map[string]interface{}{
				"kind": "product", "item_id": itemID, "quantity": 1,
				"selected_pricing": map[string]interface{}{"quantity": 1, "unit": "litre", "price": 100},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withAuth(t, jsonRequest(http.MethodPost, "/cart", tc.body), "user")
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAdminGuard(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := middleware.AuthMiddleware(middleware.AdminMiddleware(next))

	t.Run("plain user is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withAuth(t, httptest.NewRequest(http.MethodGet, "/admin/orders", nil), "user")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})

	t.Run("admin passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withAuth(t, httptest.NewRequest(http.MethodGet, "/admin/orders", nil), "admin")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestCartUpsertResolvesTierAgainstCatalog(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	itemID := primitive.NewObjectID()
	catalogDoc := bson.D{
		{Key: "_id", Value: itemID},
		{Key: "name", Value: "Kaju Katli"},
		{Key: "image", Value: "https://img.example/kaju.jpg"},
		{Key: "pricing", Value: bson.A{
			bson.D{{Key: "quantity", Value: 500}, {Key: "unit", Value: "gm"}, {Key: "price", Value: 450.0}},
		}},
	}

	mt.Run("stores the catalog's price, not the client's", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, catalogDoc),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		cc := &CartController{
			Collection: mt.Coll,
			Catalogs:   map[models.CatalogKind]*mongo.Collection{models.KindProduct: mt.Coll},
		}
		handler := middleware.AuthMiddleware(http.HandlerFunc(cc.UpsertItem))

		body := map[string]interface{}{
			"kind": "product", "item_id": itemID.Hex(), "quantity": 2,
			"selected_pricing": map[string]interface{}{"quantity": 500, "unit": "gm", "price": 1},
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withAuth(mt.T, jsonRequest(http.MethodPost, "/cart", body), "user"))

		require.Equal(mt, http.StatusOK, rec.Code)

		var update *event.CommandStartedEvent
		for {
			evt := mt.GetStartedEvent()
			if evt == nil {
				break
			}
			if evt.CommandName == "update" {
				update = evt
			}
		}
		require.NotNil(mt, update)

		stored := update.Command.Lookup("updates").Array().Lookup("0").Document().
			Lookup("u").Document().Lookup("$set").Document().
			Lookup("items").Array().Lookup("0").Document().
			Lookup("selected_pricing").Document().Lookup("price")
		assert.Equal(mt, 450.0, stored.Double())
	})

	mt.Run("rejects a tier the item does not offer", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, catalogDoc))

		cc := &CartController{
			Collection: mt.Coll,
			Catalogs:   map[models.CatalogKind]*mongo.Collection{models.KindProduct: mt.Coll},
		}
		handler := middleware.AuthMiddleware(http.HandlerFunc(cc.UpsertItem))

		body := map[string]interface{}{
			"kind": "product", "item_id": itemID.Hex(), "quantity": 1,
			"selected_pricing": map[string]interface{}{"quantity": 250, "unit": "gm", "price": 450},
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withAuth(mt.T, jsonRequest(http.MethodPost, "/cart", body), "user"))

		assert.Equal(mt, http.StatusBadRequest, rec.Code)
	})

	mt.Run("rejects a reference to a deleted item", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		cc := &CartController{
			Collection: mt.Coll,
			Catalogs:   map[models.CatalogKind]*mongo.Collection{models.KindProduct: mt.Coll},
		}
		handler := middleware.AuthMiddleware(http.HandlerFunc(cc.UpsertItem))

		body := map[string]interface{}{"kind": "product", "item_id": itemID.Hex(), "quantity": 1}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withAuth(mt.T, jsonRequest(http.MethodPost, "/cart", body), "user"))

		assert.Equal(mt, http.StatusNotFound, rec.Code)
	})
}

func TestCartClearCreatesCartWhenMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("clear on a user with no cart upserts an empty one", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		cc := &CartController{Collection: mt.Coll}
		handler := middleware.AuthMiddleware(http.HandlerFunc(cc.Clear))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withAuth(mt.T, httptest.NewRequest(http.MethodPost, "/cart/clear", nil), "user"))

		require.Equal(mt, http.StatusOK, rec.Code)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)

		op := evt.Command.Lookup("updates").Array().Lookup("0").Document()
		assert.True(mt, op.Lookup("upsert").Boolean())

		items, err := op.Lookup("u").Document().Lookup("$set").Document().Lookup("items").Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, items)
	})
}
