package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-trip-planner/docs"
	tripPlan "github.com/FACorreiaa/go-trip-planner/internal/api/trip_plan"
)

// Config contains dependencies needed for the router setup
type Config struct {
	TripPlanHandler *tripPlan.HandlerImpl
	AllowedOrigins  []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main
// before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", tripPlan.GenerationIDHeader},
		ExposedHeaders:   []string{tripPlan.GenerationIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/trip-plans", func(r chi.Router) {
			r.Post("/", cfg.TripPlanHandler.CreateTripPlan)
			r.Get("/schema", cfg.TripPlanHandler.GetTripPlanSchema)
			r.Delete("/{generationID}", cfg.TripPlanHandler.CancelTripPlan)
		})
	})

	return r
}
