package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/gridtrade/exchange/internal/api/handlers"
	mw "github.com/gridtrade/exchange/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret          []byte
	AuthHandler         *handlers.AuthHandler
	ListingsHandler     *handlers.ListingsHandler
	TransactionsHandler *handlers.TransactionsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(100, 200))
	r.Use(chimid.Compress(5))

	// Liveness endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/", hh.Home)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api", func(api chi.Router) {
		api.Use(mw.Auth(dep.HMACSecret))

		api.Post("/login", dep.AuthHandler.Login)

		api.Get("/listings", dep.ListingsHandler.List)
		api.Post("/post-energy", dep.ListingsHandler.Create)
		api.Delete("/delete-energy/{listing_id}", dep.ListingsHandler.Delete)

		api.Post("/buy-energy", dep.TransactionsHandler.Buy)
		api.Post("/my-energy", dep.TransactionsHandler.MyEnergy)
	})

	return r
}
