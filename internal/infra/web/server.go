package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/infra/logging"
	"listing-credit-ledger/internal/usecase"
)

// Server is the admin surface of the ledger: catalog maintenance, issuance,
// consumption and balance views. It is the "external administrative process"
// the catalog contract refers to.
type Server struct {
	typeUC    *usecase.CreditTypeUseCase
	creditUC  *usecase.CreditUseCase
	consumeUC *usecase.ConsumptionUseCase
	availUC   *usecase.AvailabilityUseCase
	statsUC   usecase.StatsUseCase

	auth     *AuthManager
	password string
	log      *zerolog.Logger
}

func NewServer(
	typeUC *usecase.CreditTypeUseCase,
	creditUC *usecase.CreditUseCase,
	consumeUC *usecase.ConsumptionUseCase,
	availUC *usecase.AvailabilityUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	password string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		typeUC:    typeUC,
		creditUC:  creditUC,
		consumeUC: consumeUC,
		availUC:   availUC,
		statsUC:   statsUC,
		auth:      auth,
		password:  password,
		log:       &l,
	}
}

// requestLogger tags each request with a trace id and traces its duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		log := logging.With(ctx, s.log)
		defer logging.TraceDuration(log, r.Method+" "+r.URL.Path)()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Router builds the chi router for the admin API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/stats", s.handleStats)

			r.Route("/credit-types", func(r chi.Router) {
				r.Get("/", s.handleTypesList)
				r.Post("/", s.handleTypeCreate)
				r.Get("/{sku}", s.handleTypeGet)
				r.Put("/{sku}", s.handleTypeUpdate)
				r.Delete("/{sku}", s.handleTypeDelete)
			})

			r.Route("/credits", func(r chi.Router) {
				r.Post("/", s.handleIssue)
				r.Post("/{id}/consumptions", s.handleConsume)
				r.Get("/{id}/consumptions", s.handleHistory)
			})

			r.Route("/users/{id}/credits", func(r chi.Router) {
				r.Get("/", s.handleAvailability)
				r.Get("/monthly-free", s.handleMonthlyFree)
			})
		})
	})

	return r
}
