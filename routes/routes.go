package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"lindel.lk/lims/handlers"
	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.Use(middleware.RequestLogger)

	api.HandleFunc("/profile", handlers.GetCurrentUser).Methods("GET")

	registerWorkflowRoutes(api)
	registerLaboratoryRoutes(api)

	return r
}

// adminOnly gates an endpoint to administrators.
func adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireRole([]string{models.RoleAdmin}, h).ServeHTTP
}

// registerWorkflowRoutes wires the request -> quotation -> CRF pipeline.
// Fixed segments (confirmed, status, customer, prefill) register before
// the {id} captures so they are never swallowed as ids.
func registerWorkflowRoutes(api *mux.Router) {
	// Test requests
	api.HandleFunc("/requests", handlers.ListRequests).Methods("GET")
	api.HandleFunc("/requests", handlers.CreateRequest).Methods("POST")
	api.HandleFunc("/requests/confirmed", handlers.ConfirmedRequests).Methods("GET")
	api.HandleFunc("/requests/status/{status}", handlers.RequestsByStatus).Methods("GET")
	api.HandleFunc("/requests/{id}", handlers.GetRequest).Methods("GET")
	api.HandleFunc("/requests/{id}/status", handlers.UpdateRequestStatus).Methods("PATCH")

	// Quotations, keyed by the request they answer
	api.HandleFunc("/quotations", handlers.ListQuotations).Methods("GET")
	api.HandleFunc("/quotations", handlers.CreateQuotation).Methods("POST")
	api.HandleFunc("/quotations/{id}", handlers.GetQuotation).Methods("GET")
	api.HandleFunc("/quotations/{id}", handlers.UpdateQuotation).Methods("PUT")
	api.HandleFunc("/quotations/{id}/approve", handlers.ApproveQuotation).Methods("POST")

	// CRFs. Path ids use dashes in place of the slashes minted ids
	// carry: /crfs/CS-25-001 addresses CS/25/001.
	api.HandleFunc("/crfs", handlers.ListCRFs).Methods("GET")
	api.HandleFunc("/crfs", handlers.CreateCRF).Methods("POST")
	api.HandleFunc("/crfs/prefill", handlers.PrefillCRF).Methods("GET")
	api.HandleFunc("/crfs/status/{status}", handlers.CRFsByStatus).Methods("GET")
	api.HandleFunc("/crfs/customer/{customer}", handlers.CRFsByCustomer).Methods("GET")
	api.HandleFunc("/crfs/{id}", handlers.GetCRF).Methods("GET")
	api.HandleFunc("/crfs/{id}", handlers.UpdateCRF).Methods("PUT")
	api.HandleFunc("/crfs/{id}/status", handlers.UpdateCRFStatus).Methods("PATCH")
	api.HandleFunc("/crfs/{id}/status/next", handlers.NextCRFStatuses).Methods("GET")
	api.HandleFunc("/crfs/{id}/progress", handlers.GetProgress).Methods("GET")

	// Parameter assignments and the one-way latch
	api.HandleFunc("/crfs/{id}/assignments", handlers.ListAssignments).Methods("GET")
	api.HandleFunc("/crfs/{id}/assignments", handlers.SetAssignments).Methods("PUT")
	api.HandleFunc("/crfs/{id}/assignments/lock", handlers.LockAssignments).Methods("POST")

	// Bench results (PUT: one result per triple, resubmission overwrites)
	api.HandleFunc("/crfs/{id}/results", handlers.ListTestResults).Methods("GET")
	api.HandleFunc("/crfs/{id}/results", handlers.SubmitTestResult).Methods("PUT")

	// Supervisory review
	api.HandleFunc("/crfs/{id}/reviews", handlers.ListReviews).Methods("GET")
	api.HandleFunc("/crfs/{id}/reviews",
		middleware.RequireRole([]string{models.RoleSupervisor}, http.HandlerFunc(handlers.SubmitReview)).ServeHTTP).Methods("POST")

	// Environmental sampling capture under its CRF
	api.HandleFunc("/crfs/{id}/sampling", handlers.ListSampling).Methods("GET")
	api.HandleFunc("/crfs/{id}/sampling", handlers.SubmitSampling).Methods("POST")
}

// registerLaboratoryRoutes wires the catalog, roster, dashboard and
// exports.
func registerLaboratoryRoutes(api *mux.Router) {
	// Analysis catalog
	api.HandleFunc("/parameters", handlers.ListParameters).Methods("GET")
	api.HandleFunc("/parameters", adminOnly(handlers.UpsertParameter)).Methods("POST")
	api.HandleFunc("/parameters/sample-type/{type}", handlers.ParametersForSampleType).Methods("GET")
	api.HandleFunc("/parameters/{name}", handlers.GetParameter).Methods("GET")
	api.HandleFunc("/parameters/{name}", adminOnly(handlers.UpsertParameter)).Methods("PUT")

	// Chemist roster
	api.HandleFunc("/chemists", handlers.ListChemists).Methods("GET")
	api.HandleFunc("/chemists", adminOnly(handlers.CreateChemist)).Methods("POST")
	api.HandleFunc("/chemists/workload", handlers.ChemistWorkload).Methods("GET")
	api.HandleFunc("/chemists/{id}", adminOnly(handlers.UpdateChemist)).Methods("PUT")

	// Sampling map overlay
	api.HandleFunc("/sampling/geojson", handlers.SamplingGeoJSON).Methods("GET")

	// Dashboard and register exports
	api.HandleFunc("/dashboard/stats", handlers.DashboardStats).Methods("GET")
	api.HandleFunc("/export/sample-register", handlers.ExportSampleRegister).Methods("GET")
	api.HandleFunc("/export/sample-register.csv", handlers.ExportSampleRegisterCSV).Methods("GET")

	// Audit trail
	api.HandleFunc("/audit", adminOnly(handlers.ListAuditLogs)).Methods("GET")
}
