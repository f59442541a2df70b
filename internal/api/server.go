// Package api provides the HTTP surface over the brochure and image
// services.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/ratelimit"
	"github.com/flyerforge/flyerforge-server/internal/service"
)

// Upload throttling per tenant. Image standardization is the most
// expensive request the server handles.
const (
	uploadRPS   = 5
	uploadBurst = 10
)

// Services groups the business logic services used by the API server.
type Services struct {
	Brochures *service.BrochureService
	Images    *service.ImageService
	Versions  *service.VersionService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services      *Services
	router        *chi.Mux
	api           huma.API
	logger        *logger.Logger
	uploadLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
// depotPath is the filesystem root served under /uploads/.
func NewServer(services *Services, depotPath string, log *logger.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Tenant-ID"},
	}))

	humaConfig := huma.DefaultConfig("FlyerForge API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:      services,
		router:        router,
		api:           api,
		logger:        log,
		uploadLimiter: ratelimit.New(uploadRPS, uploadBurst),
	}

	s.registerHealthRoutes()
	s.registerBrochureRoutes()
	s.registerPageRoutes()
	s.registerProductRoutes()
	s.registerTemplateRoutes()
	s.registerVersionRoutes()
	s.registerImageRoutes()

	if depotPath != "" {
		router.Handle("/uploads/*",
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(depotPath))))
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthOutput struct {
	Body struct {
		Status string `json:"status" doc:"Server health status"`
	}
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, func(_ context.Context, _ *struct{}) (*healthOutput, error) {
		out := &healthOutput{}
		out.Body.Status = "healthy"
		return out, nil
	})
}
