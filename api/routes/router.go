package routes

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/rfqdesk/api/controllers"
	"github.com/angelmondragon/rfqdesk/api/middleware"
	"github.com/angelmondragon/rfqdesk/internal/auth"
	"github.com/angelmondragon/rfqdesk/internal/items"
	"github.com/angelmondragon/rfqdesk/internal/quotes"
	"github.com/angelmondragon/rfqdesk/pkg/config"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/redis"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

// Deps groups what the router hands to its controllers. RedisClient and Gatherer are
// optional.
type Deps struct {
	Store         rowstore.Store
	RedisClient   *redis.Client
	Gatherer      prometheus.Gatherer
	AuthService   auth.Service
	ItemsService  items.Service
	QuotesService quotes.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.NoCache,
	)

	ready := map[string]controllers.Pinger{}
	if p, ok := deps.Store.(rowstore.Pinger); ok {
		ready["rowstore"] = p
	}
	var idempotencyStore redis.IdempotencyStore
	if deps.RedisClient != nil {
		ready["redis"] = deps.RedisClient
		idempotencyStore = deps.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.AuthService, logg))
		r.Get("/items", controllers.Items(deps.ItemsService, logg))
		r.Get("/item-details", controllers.ItemDetails(deps.ItemsService, logg))
		r.With(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg)).
			Post("/add-quote", controllers.AddQuote(deps.QuotesService, logg))
	})

	if dir := cfg.App.PublicDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		}
	}

	return r
}
