// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agrimesh/irrihub/api/middleware"
	"github.com/agrimesh/irrihub/api/resources"
	"github.com/agrimesh/irrihub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.GatewayAuth
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewGatewayAuth(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

// SetHealthCheck sets the health check handler
func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

// SetMetrics sets the metrics handler
func (r *Router) SetMetrics(h http.Handler) {
	r.resources.SetMetrics(h.ServeHTTP)
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
		r.resources.Metrics(w, req)
	}).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Devices
	protected.HandleFunc("/devices", r.resources.Devices.ListDevices).Methods(http.MethodGet)

	// Analytics
	analytics := protected.PathPrefix("/analytics").Subrouter()
	analytics.HandleFunc("/history", r.resources.Analytics.History).Methods(http.MethodGet)
	analytics.HandleFunc("/statistics", r.resources.Analytics.Statistics).Methods(http.MethodGet)
	analytics.HandleFunc("/hourly", r.resources.Analytics.Hourly).Methods(http.MethodGet)
	analytics.HandleFunc("/daily", r.resources.Analytics.Daily).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
