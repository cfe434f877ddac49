package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/counterline/pos-backend/api/controllers"
	"github.com/counterline/pos-backend/api/middleware"
	"github.com/counterline/pos-backend/internal/catalog"
	"github.com/counterline/pos-backend/internal/customers"
	"github.com/counterline/pos-backend/internal/orders"
	"github.com/counterline/pos-backend/internal/terminal"
	"github.com/counterline/pos-backend/pkg/config"
	"github.com/counterline/pos-backend/pkg/db"
	"github.com/counterline/pos-backend/pkg/logger"
	pkgredis "github.com/counterline/pos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP pkgredis.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	terminalSvc *terminal.Service,
	catalogSvc catalog.Service,
	customerSvc customers.Service,
	ordersRepo orders.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartOpen(terminalSvc, logg))
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(terminalSvc, logg))
				r.Delete("/", controllers.CartClose(terminalSvc, logg))
				r.Post("/items", controllers.CartAddItem(terminalSvc, logg))
				r.Patch("/items/{productID}", controllers.CartChangeQuantity(terminalSvc, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(terminalSvc, logg))
				r.Post("/items/{productID}/discount", controllers.CartApplyDiscount(terminalSvc, logg))
				r.Post("/customer", controllers.CartAttachCustomer(terminalSvc, logg))
				r.Delete("/customer", controllers.CartDetachCustomer(terminalSvc, logg))
				r.Post("/clear", controllers.CartClear(terminalSvc, logg))
				r.Post("/payment", controllers.CartResolvePayment(terminalSvc, logg))
				r.With(middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg)).
					Post("/checkout", controllers.CartCheckout(terminalSvc, logg))
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductSearch(catalogSvc, cfg.Catalog, logg))
			r.Get("/products/{productID}", controllers.ProductDetail(catalogSvc, logg))
			r.Get("/barcode", controllers.ProductByBarcode(catalogSvc, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerSearch(customerSvc, logg))
			r.Get("/{customerID}", controllers.CustomerDetail(customerSvc, logg))
		})

		r.Get("/sales/{saleID}", controllers.SaleDetail(ordersRepo, logg))
	})

	return r
}
