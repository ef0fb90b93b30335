// Package kernel assembles the bookstore HTTP application: services,
// controllers, listeners, global middleware and routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bookstore/app/controllers"
	loangraphql "github.com/shashiranjanraj/bookstore/app/graphql"
	"github.com/shashiranjanraj/bookstore/app/listeners"
	"github.com/shashiranjanraj/bookstore/app/routes"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/pkg/auth"
	"github.com/shashiranjanraj/bookstore/pkg/cache"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/graphql"
	httpclient "github.com/shashiranjanraj/bookstore/pkg/http"
	"github.com/shashiranjanraj/bookstore/pkg/metrics"
	"github.com/shashiranjanraj/bookstore/pkg/middleware"
	"github.com/shashiranjanraj/bookstore/pkg/reqid"
	"github.com/shashiranjanraj/bookstore/pkg/response"
	"github.com/shashiranjanraj/bookstore/pkg/router"
	"gorm.io/gorm"
)

// Options carries everything the kernel needs from the outside.
type Options struct {
	DB            *gorm.DB
	Cache         *cache.Store // may be nil; catalog lookups are then uncached
	Clock         services.Clock
	Auth          config.AuthConfig
	Catalog       config.CatalogConfig
	CatalogClient *httpclient.Client
	LoanDurations []int
	RateLimit     int
	RateWindow    time.Duration
}

// HTTPKernel owns the router and the shared collaborators built from
// Options.
type HTTPKernel struct {
	router  *router.Router
	db      *gorm.DB
	events  *event.Bus
	limiter *middleware.RateLimiter
	issuer  *auth.Issuer
}

func NewHTTPKernel(opts Options) (*HTTPKernel, error) {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 200
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}

	bus := event.New()
	listeners.RegisterMetrics(bus)

	issuer := auth.NewIssuer(opts.Auth)
	loans := services.NewLoanService(opts.DB, services.NewLoanPolicy(opts.LoanDurations), opts.Clock, bus)
	catalog := services.NewCatalogService(opts.Catalog, opts.CatalogClient, opts.Cache, bus)

	schema, err := graphql.NewSchema(loangraphql.LoanQuery(loans))
	if err != nil {
		return nil, err
	}

	k := &HTTPKernel{
		router:  router.New(),
		db:      opts.DB,
		events:  bus,
		limiter: middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow),
		issuer:  issuer,
	}

	// Outermost first: metrics see total latency, recovery guards the rest,
	// and the request id exists before anything logs.
	k.router.Use(metrics.Middleware())
	k.router.Use(middleware.Recovery)
	k.router.Use(reqid.Middleware())
	k.router.Use(middleware.Logger)
	k.router.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	k.router.Use(k.limiter.Middleware)

	k.router.HandleFunc("/metrics", metrics.Handler())
	k.router.Get("/health", "health", k.health)

	routes.RegisterAPI(k.router, routes.API{
		Auth:     controllers.NewAuthController(services.NewAuthService(opts.DB, issuer)),
		Books:    controllers.NewBookController(services.NewBookService(opts.DB)),
		Cart:     controllers.NewCartController(services.NewCartService(opts.DB)),
		Loans:    controllers.NewLoanController(loans),
		Catalog:  controllers.NewCatalogController(catalog),
		Reviews:  controllers.NewReviewController(services.NewReviewService(opts.DB, catalog)),
		GraphQL:  graphql.Handler(schema),
		Verifier: issuer,
	})

	return k, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}

// Events is the bus the kernel's services fire on.
func (k *HTTPKernel) Events() *event.Bus {
	return k.events
}

// Issuer signs and verifies the API's bearer tokens.
func (k *HTTPKernel) Issuer() *auth.Issuer {
	return k.issuer
}

// Background runs the kernel's housekeeping until ctx is done.
func (k *HTTPKernel) Background(ctx context.Context) {
	k.limiter.Evict(ctx, time.Minute)
}

func (k *HTTPKernel) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := k.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		response.Unavailable(w, "database unreachable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
