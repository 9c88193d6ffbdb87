package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merybery/merybery-backend/api/controllers"
	"github.com/merybery/merybery-backend/api/middleware"
	"github.com/merybery/merybery-backend/internal/farms"
	"github.com/merybery/merybery-backend/internal/inventory"
	"github.com/merybery/merybery-backend/internal/users"
	"github.com/merybery/merybery-backend/internal/varieties"
	"github.com/merybery/merybery-backend/pkg/config"
	"github.com/merybery/merybery-backend/pkg/db"
	"github.com/merybery/merybery-backend/pkg/logger"
	"github.com/merybery/merybery-backend/pkg/metrics"
	"github.com/merybery/merybery-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	idempotencyStore redis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	userService users.Service,
	farmService farms.Service,
	varietyService varieties.Service,
	inventoryService inventory.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(userService, logg))
			r.Get("/", controllers.UserLookup(userService, logg))
			r.Get("/{externalID}", controllers.UserFetch(userService, logg))
			r.Patch("/{userID}", controllers.UserUpdate(userService, logg))
			r.Delete("/{userID}", controllers.UserDelete(userService, logg))
		})

		r.Route("/farms", func(r chi.Router) {
			r.Post("/", controllers.FarmCreate(farmService, logg))
			r.Get("/", controllers.FarmList(farmService, logg))
			r.Get("/{farmID}", controllers.FarmFetch(farmService, logg))
			r.Patch("/{farmID}", controllers.FarmUpdate(farmService, logg))
			r.Delete("/{farmID}", controllers.FarmDelete(farmService, logg))
			r.Put("/{farmID}/varieties/{varietyID}", controllers.FarmAddVariety(farmService, logg))
			r.Delete("/{farmID}/varieties/{varietyID}", controllers.FarmRemoveVariety(farmService, logg))
			r.Get("/{farmID}/inventory", controllers.InventoryListByFarm(inventoryService, logg))
		})

		r.Route("/varieties", func(r chi.Router) {
			r.Post("/", controllers.VarietyCreate(varietyService, logg))
			r.Get("/", controllers.VarietyList(varietyService, logg))
			r.Get("/{varietyID}", controllers.VarietyFetch(varietyService, logg))
			r.Patch("/{varietyID}", controllers.VarietyUpdate(varietyService, logg))
			r.Delete("/{varietyID}", controllers.VarietyDelete(varietyService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.InventoryCreate(inventoryService, logg))
			r.Get("/{inventoryID}", controllers.InventoryFetch(inventoryService, logg))
			r.Patch("/{inventoryID}", controllers.InventoryUpdate(inventoryService, logg))
			r.Delete("/{inventoryID}", controllers.InventoryDelete(inventoryService, logg))
			r.Post("/{inventoryID}/adjust", controllers.InventoryAdjust(inventoryService, logg))
		})
	})

	return r
}
