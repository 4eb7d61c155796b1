package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/controllers"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/middleware"
	authsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/auth"
	cartsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/cart"
	checkoutsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/checkout"
	inventorysvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/inventory"
	mediasvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/media"
	ordersvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	productsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	reviewsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/reviews"
	userpkg "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/metrics"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth      authsvc.Service
	Users     userpkg.Repository
	Products  productsvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Inventory inventorysvc.Service
	Reviews   reviewsvc.Service
	Media     mediasvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Stored product images are served straight off the public uploads dir.
	r.Handle(cfg.Media.PublicPath+"/*", http.StripPrefix(cfg.Media.PublicPath+"/", http.FileServer(http.Dir(cfg.Media.UploadDir))))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.PublicProductList(svcs.Products, logg))
		r.Get("/{productId}", controllers.PublicProductDetail(svcs.Products, logg))
		r.Get("/{productId}/reviews", controllers.ProductReviewList(svcs.Reviews, logg))
		r.With(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(string(enums.UserRoleCustomer), logg),
		).Post("/{productId}/reviews", controllers.ProductReviewCreate(svcs.Reviews, logg))
	})

	// Paystack calls this directly; auth happens via the signature check.
	r.Post("/api/payments/webhook", controllers.PaystackWebhook(svcs.Checkout, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleCustomer), logg))

			r.Route("/api/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Cart, logg))
				r.Put("/", controllers.CartPut(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})
			r.Post("/api/checkout", controllers.CheckoutSubmit(svcs.Checkout, svcs.Users, logg))
			r.Route("/api/orders", func(r chi.Router) {
				r.Get("/", controllers.CustomerOrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.CustomerOrderDetail(svcs.Orders, logg))
			})
			r.Get("/api/payments/verify/{reference}", controllers.PaymentVerify(svcs.Checkout, logg))
		})

		r.With(
			middleware.RequireAnyRole(logg, string(enums.UserRoleSupplier), string(enums.UserRoleAdmin)),
		).Post("/api/upload/product-image", controllers.UploadProductImage(svcs.Media, cfg.Media, logg))

		r.Route("/api/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleSupplier), logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.SupplierProductList(svcs.Products, logg))
				r.Post("/", controllers.SupplierProductCreate(svcs.Products, logg))
				r.Patch("/{productId}", controllers.SupplierProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.SupplierProductDelete(svcs.Products, logg))
			})
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.SupplierStockList(svcs.Inventory, logg))
				r.Put("/{productId}", controllers.SupplierStockUpdate(svcs.Inventory, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.SupplierOrderList(svcs.Orders, logg))
				r.Patch("/{orderId}/status", controllers.SupplierOrderSetStatus(svcs.Orders, logg))
			})
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderSetStatus(svcs.Orders, logg))
				r.Post("/{orderId}/confirm-payment", controllers.AdminOrderConfirmPayment(svcs.Checkout, logg))
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(svcs.Users, logg))
				r.Patch("/{userId}/role", controllers.AdminUserSetRole(svcs.Users, logg))
			})
		})
	})

	return r
}
