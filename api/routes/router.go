package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickbite-app/quickbite-backend/api/controllers"
	"github.com/quickbite-app/quickbite-backend/api/middleware"
	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	checkoutsvc "github.com/quickbite-app/quickbite-backend/internal/checkout"
	"github.com/quickbite-app/quickbite-backend/internal/identity"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
	"github.com/quickbite-app/quickbite-backend/pkg/metrics"
	"github.com/quickbite-app/quickbite-backend/pkg/redis"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	DocdbPinger     controllers.Pinger
	CartRegistry    *cart.Registry
	CartMetrics     *metrics.CartMetrics
	MetricsGatherer prometheus.Gatherer
	IdentityService identity.Service
	CatalogService  catalog.Service
	CheckoutService checkoutsvc.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DocdbPinger, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.IdentityService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.IdentityService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.IdentityService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/logout", controllers.AuthLogout(deps.IdentityService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(deps.IdentityService, logg))
			r.Patch("/", controllers.ProfileUpdate(deps.IdentityService, logg))
		})

		r.Get("/categories", controllers.MenuCategories(deps.CatalogService, logg))
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuSearch(deps.CatalogService, logg))
			r.Get("/{itemId}", controllers.MenuItemDetail(deps.CatalogService, logg))
			r.Get("/{itemId}/customizations", controllers.MenuItemCustomizations(deps.CatalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartRegistry, deps.CheckoutService, logg))
			r.Delete("/", controllers.CartClear(deps.CartRegistry, deps.CheckoutService, deps.CartMetrics, logg))
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.CartAddItem(deps.CartRegistry, deps.CatalogService, deps.CheckoutService, deps.CartMetrics, logg))
				r.Post("/increase", controllers.CartIncrease(deps.CartRegistry, deps.CheckoutService, deps.CartMetrics, logg))
				r.Post("/decrease", controllers.CartDecrease(deps.CartRegistry, deps.CheckoutService, deps.CartMetrics, logg))
				r.Delete("/", controllers.CartRemove(deps.CartRegistry, deps.CheckoutService, deps.CartMetrics, logg))
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutSummary(deps.CartRegistry, deps.CheckoutService, logg))
			r.Post("/", controllers.PlaceOrder(deps.CartRegistry, deps.CheckoutService, logg))
		})
	})

	return r
}
