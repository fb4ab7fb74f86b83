package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-sweetshop/controllers"
	"go-sweetshop/middleware"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.CatalogController
	Boxes     *controllers.CatalogController
	Namkeens  *controllers.CatalogController
	Enquiries *controllers.EnquiryController
	Carts     *controllers.CartController
	Orders    *controllers.OrderController
	Sawamanis *controllers.SawamaniController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Public routes
	router.HandleFunc("/register", c.Users.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", c.Users.Login).Methods(http.MethodPost)
	router.HandleFunc("/enquiries", c.Enquiries.Create).Methods(http.MethodPost)
	router.HandleFunc("/sawamani", c.Sawamanis.Create).Methods(http.MethodPost)

	// Catalog: reads public, writes admin-only on the same prefix
	registerCatalog(router, "/products", c.Products)
	registerCatalog(router, "/boxes", c.Boxes)
	registerCatalog(router, "/namkeens", c.Namkeens)

	// Identity-scoped routes
	authed := router.PathPrefix("/").Subrouter()
	authed.Use(middleware.AuthMiddleware)
	authed.HandleFunc("/profile", c.Users.GetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/cart", c.Carts.Get).Methods(http.MethodGet)
	authed.HandleFunc("/cart", c.Carts.UpsertItem).Methods(http.MethodPost)
	authed.HandleFunc("/cart/items/{kind}/{id}", c.Carts.RemoveItem).Methods(http.MethodDelete)
	authed.HandleFunc("/cart/clear", c.Carts.Clear).Methods(http.MethodPost, http.MethodDelete)
	authed.HandleFunc("/orders", c.Orders.Create).Methods(http.MethodPost)
	authed.HandleFunc("/orders", c.Orders.List).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}", c.Orders.GetByID).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}/cancel", c.Orders.Cancel).Methods(http.MethodPost)

	// Enquiry management (Admin only; creation above is public)
	enquiries := adminSubrouter(router, "/enquiries")
	enquiries.HandleFunc("", c.Enquiries.List).Methods(http.MethodGet)
	enquiries.HandleFunc("/stats", c.Enquiries.Stats).Methods(http.MethodGet)
	enquiries.HandleFunc("/{id}", c.Enquiries.GetByID).Methods(http.MethodGet)
	enquiries.HandleFunc("/{id}", c.Enquiries.UpdateStatus).Methods(http.MethodPut)

	// Bulk-order listing (Admin only; creation above is public)
	sawamani := adminSubrouter(router, "/sawamani")
	sawamani.HandleFunc("", c.Sawamanis.List).Methods(http.MethodGet)

	// Order management (Admin only)
	adminOrders := adminSubrouter(router, "/admin/orders")
	adminOrders.HandleFunc("", c.Orders.ListAll).Methods(http.MethodGet)
	adminOrders.HandleFunc("/{id}", c.Orders.UpdateStatus).Methods(http.MethodPut)
}

// registerCatalog wires the public reads and the admin-guarded writes of one
// catalog collection.
func registerCatalog(router *mux.Router, prefix string, cc *controllers.CatalogController) {
	router.HandleFunc(prefix, cc.List).Methods(http.MethodGet)
	router.HandleFunc(prefix+"/{id}", cc.GetByID).Methods(http.MethodGet)

	admin := adminSubrouter(router, prefix)
	admin.HandleFunc("", cc.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", cc.Update).Methods(http.MethodPut)
	admin.HandleFunc("", cc.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/{id}", cc.Delete).Methods(http.MethodDelete)
}

// adminSubrouter mounts an auth+admin guarded subrouter at prefix.
func adminSubrouter(router *mux.Router, prefix string) *mux.Router {
	sub := router.PathPrefix(prefix).Subrouter()
	sub.Use(middleware.AuthMiddleware)
	sub.Use(middleware.AdminMiddleware)
	return sub
}
