package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sweetshop/models"
)

func newTestCatalogController(kind models.CatalogKind) *CatalogController {
	// Collection stays nil: these tests only exercise paths that reject the
	// request before any store access.
	return &CatalogController{Kind: kind, Tiered: kind != models.KindBox}
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCatalogCreateValidation(t *testing.T) {
	boxes := newTestCatalogController(models.KindBox)
	products := newTestCatalogController(models.KindProduct)

	cases := []struct {
		name       string
		controller *CatalogController
		body       map[string]interface{}
	}{
		{
			name:       "rejects non-positive flat price",
			controller: boxes,
			body: map[string]interface{}{
				"name": "Ghee Box", "description": "Festive box",
				"image": "https://img.example/ghee.jpg", "price": -5,
			},
		},
		{
			name:       "rejects missing name",
			controller: boxes,
			body: map[string]interface{}{
				"description": "Festive box", "image": "https://img.example/ghee.jpg", "price": 499,
			},
		},
		{
			name:       "rejects empty pricing tiers",
			controller: products,
			body: map[string]interface{}{
				"name": "Kaju Katli", "description": "Classic",
				"image": "https://img.example/kaju.jpg", "pricing": []models.PricingTier{},
			},
		},
		{
			name:       "rejects unknown tier unit",
			controller: products,
			body: map[string]interface{}{
				"name": "Kaju Katli", "description": "Classic",
				"image": "https://img.example/kaju.jpg",
				"pricing": []models.PricingTier{{Quantity: 500, Unit: "pound", Price: 450}},
			},
		},
		{
			name:       "rejects non-positive tier price",
			controller: products,
			body: map[string]interface{}{
				"name": "Kaju Katli", "description": "Classic",
				"image": "https://img.example/kaju.jpg",
				"pricing": []models.PricingTier{{Quantity: 500, Unit: "gm", Price: 0}},
			},
		},
		{
			name:       "rejects unknown tag",
			controller: boxes,
			body: map[string]interface{}{
				"name": "Ghee Box", "description": "Festive box",
				"image": "https://img.example/ghee.jpg", "price": 499, "tag": "featured",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.controller.Create(rec, jsonRequest(http.MethodPost, "/boxes", tc.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCatalogInvalidIDRejectedBeforeStore(t *testing.T) {
	cc := newTestCatalogController(models.KindProduct)
	router := mux.NewRouter()
	router.HandleFunc("/products/{id}", cc.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", cc.Update).Methods(http.MethodPut)
	router.HandleFunc("/products", cc.Delete).Methods(http.MethodDelete)

	for _, tc := range []struct {
		name string
		req  *http.Request
	}{
		{"get", httptest.NewRequest(http.MethodGet, "/products/not-a-hex-id", nil)},
		{"update", jsonRequest(http.MethodPut, "/products/not-a-hex-id", map[string]interface{}{"name": "x"})},
		{"delete", httptest.NewRequest(http.MethodDelete, "/products?id=not-a-hex-id", nil)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tc.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestBuildUpdateKeepsOmittedFieldsOut(t *testing.T) {
	boxes := newTestCatalogController(models.KindBox)

	t.Run("only supplied fields end up in the set document", func(t *testing.T) {
		set, err := boxes.buildUpdate(catalogItemRequest{Price: floatPtr(299)})
		require.NoError(t, err)

		assert.Equal(t, 299.0, set["price"])
		assert.NotContains(t, set, "name")
		assert.NotContains(t, set, "description")
		assert.NotContains(t, set, "image")
		assert.NotContains(t, set, "tag")
	})

	t.Run("explicit empty string overwrites", func(t *testing.T) {
		set, err := boxes.buildUpdate(catalogItemRequest{Description: strPtr("")})
		require.NoError(t, err)

		assert.Equal(t, "", set["description"])
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		_, err := boxes.buildUpdate(catalogItemRequest{})
		assert.Error(t, err)
	})

	t.Run("tiered items refuse a flat price", func(t *testing.T) {
		products := newTestCatalogController(models.KindProduct)
		_, err := products.buildUpdate(catalogItemRequest{Price: floatPtr(100)})
		assert.Error(t, err)
	})

	t.Run("supplied-but-empty pricing is rejected", func(t *testing.T) {
		products := newTestCatalogController(models.KindProduct)
		empty := []models.PricingTier{}
		_, err := products.buildUpdate(catalogItemRequest{Pricing: &empty})
		assert.Error(t, err)
	})
}

func TestValidateCreateDefaults(t *testing.T) {
	boxes := newTestCatalogController(models.KindBox)

	item, err := boxes.validateCreate(catalogItemRequest{
		Name:        strPtr("Ghee Box"),
		Description: strPtr("Festive box"),
		Image:       strPtr("https://img.example/ghee.jpg"),
		Price:       floatPtr(499),
	})
	require.NoError(t, err)

	assert.Equal(t, models.TagNone, item.Tag)
	assert.Equal(t, 499.0, item.Price)
	assert.Empty(t, item.Pricing)
}
