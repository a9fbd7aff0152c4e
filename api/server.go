/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the HTTP router (chi), middleware stack, and route definitions.
	This is the wiring layer that connects URLs to handlers.

ROUTER: chi

	Chi was chosen for:
	- Lightweight and fast
	- Context-based
	- Middleware support
	- RESTful route patterns

MIDDLEWARE STACK:
 1. Logger:     Request logging
 2. Recoverer:  Panic recovery (500 instead of crash)
 3. RequestID:  Unique ID per request for tracing
 4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:

	/api/stores/*      Store registry
	/api/employees/*   Employee registry
	/api/shifts/*      Clock events
	/api/sales         Register readings
	/api/closeouts     Safe closeouts
	/api/reports/*     Period summaries
	/api/scenarios/*   Demo scenarios

SECURITY NOTE:

	No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", h.ListStores)
			r.Post("/", h.CreateStore)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		r.Post("/sales", h.SaveSalesRecord)
		r.Post("/closeouts", h.SaveCloseout)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Store Analytics</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Store Analytics API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/stores">/api/stores</a> - List stores</li>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
<li>/api/reports/summary?from=YYYY-MM-DD&amp;to=YYYY-MM-DD - Period summaries</li>
</ul>
</body>
</html>`))
	})

	return r
}
