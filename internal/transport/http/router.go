package http

import (
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// idPattern matches the UUID-shaped IDs the repositories assign. Keeping
// the pattern strict lets fixed paths like /products/total-stock coexist
// with /products/{id}.
const idPattern = "{id:[0-9a-fA-F-]{36}}"

func NewRouter(
	mw *Middleware,
	ph *ProductHandler,
	sh *SupplierHandler,
	ah *AuthHandler,
	ch *CartHandler,
	ih *ImageHandler,
	wsHandler http.Handler,
) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.CORSMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(mw.ContentTypeMiddleware)

	// Public catalog routes. List-shaped payloads are compressed.
	api.Handle("/catalog", handlers.CompressHandler(http.HandlerFunc(ph.GetCatalog))).Methods("GET")
	api.Handle("/products", handlers.CompressHandler(http.HandlerFunc(ph.GetProducts))).Methods("GET")
	api.HandleFunc("/products/total-stock", ph.GetTotalStock).Methods("GET")
	api.HandleFunc("/products/stats/inventory", ph.GetInventoryStats).Methods("GET")
	api.HandleFunc("/products/"+idPattern, ph.GetProductByID).Methods("GET")
	api.HandleFunc("/pdf/generate", ph.GenerateInventoryPDF).Methods("GET")
	api.HandleFunc("/health", HealthHandler).Methods("GET")

	// Product management requires authentication
	productAdmin := api.NewRoute().Subrouter()
	productAdmin.Use(mw.AuthMiddleware)
	productAdmin.HandleFunc("/products", ph.AddProduct).Methods("POST")
	productAdmin.HandleFunc("/products/"+idPattern, ph.UpdateProduct).Methods("PUT")
	productAdmin.HandleFunc("/products/"+idPattern, ph.DeleteProduct).Methods("DELETE")

	// Supplier routes
	api.Handle("/suppliers", handlers.CompressHandler(http.HandlerFunc(sh.GetSuppliers))).Methods("GET")
	api.HandleFunc("/suppliers/pdf/generate", sh.GenerateSuppliersPDF).Methods("GET")
	api.HandleFunc("/suppliers/"+idPattern, sh.GetSupplierByID).Methods("GET")

	supplierAdmin := api.NewRoute().Subrouter()
	supplierAdmin.Use(mw.AuthMiddleware)
	supplierAdmin.HandleFunc("/suppliers/"+idPattern+"/purchase-orders", sh.CreatePurchaseOrder).Methods("POST")
	supplierAdmin.HandleFunc("/suppliers/"+idPattern, sh.DeleteSupplier).Methods("DELETE")

	supplierWrite := api.NewRoute().Subrouter()
	supplierWrite.Use(mw.AuthMiddleware, mw.SupplierValidationMiddleware)
	supplierWrite.HandleFunc("/suppliers", sh.AddSupplier).Methods("POST")
	supplierWrite.HandleFunc("/suppliers/"+idPattern, sh.UpdateSupplier).Methods("PUT")

	// Auth routes; register and login share the credentials validator
	credRouter := api.NewRoute().Subrouter()
	credRouter.Use(mw.CredentialsValidationMiddleware)
	credRouter.HandleFunc("/auth/register", ah.Register).Methods("POST")
	credRouter.HandleFunc("/auth/login", ah.Login).Methods("POST")

	// Password recovery validates its own bodies
	api.HandleFunc("/auth/forgot-password", ah.ForgotPassword).Methods("POST")
	api.HandleFunc("/auth/reset-password", ah.ResetPassword).Methods("POST")

	meRouter := api.NewRoute().Subrouter()
	meRouter.Use(mw.AuthMiddleware)
	meRouter.HandleFunc("/auth/me", ah.Me).Methods("GET")
	meRouter.HandleFunc("/auth/change-password", ah.ChangePassword).Methods("POST")

	// Cart routes, keyed by the session header
	api.HandleFunc("/cart", ch.GetCart).Methods("GET")
	api.HandleFunc("/cart", ch.ClearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", ch.AddItem).Methods("POST")
	api.HandleFunc("/cart/items/"+idPattern, ch.UpdateItem).Methods("PUT")
	api.HandleFunc("/cart/items/"+idPattern, ch.RemoveItem).Methods("DELETE")

	// Stored product images
	router.HandleFunc("/images/{id}", ih.ServeImage).Methods("GET")

	// Live stock and catalog updates
	router.Handle("/ws", wsHandler).Methods("GET")

	// Swagger UI and specification routes
	_, filename, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(filename)
	rootDir := filepath.Join(basePath, "..", "..", "..")
	swaggerFilePath := filepath.Join(rootDir, "swagger.yaml")

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, swaggerFilePath)
	}).Methods("GET")

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	swaggerHandler := middleware.Redoc(swaggerOpts, nil)
	router.Handle("/docs", swaggerHandler).Methods("GET")

	return router
}
