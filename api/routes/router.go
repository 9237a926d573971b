package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/gigboard-backend/api/controllers"
	webhookcontrollers "github.com/angelmondragon/gigboard-backend/api/controllers/webhooks"
	"github.com/angelmondragon/gigboard-backend/api/middleware"
	"github.com/angelmondragon/gigboard-backend/internal/bids"
	"github.com/angelmondragon/gigboard-backend/internal/claims"
	"github.com/angelmondragon/gigboard-backend/internal/gigs"
	"github.com/angelmondragon/gigboard-backend/internal/webhooks/paystack"
	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/redis"
)

// ServiceName identifies the API in health responses and logs.
const ServiceName = "gigboard-api"

type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Authenticator pkgAuth.Authenticator
	Idempotency   redis.IdempotencyStore
	Readiness     map[string]controllers.Pinger
	Metrics       http.Handler

	Gigs       gigs.Service
	Bids       bids.Service
	Claims     claims.Service
	Paystack   *paystack.Authenticator
	Reconciler webhookcontrollers.PaystackReconciler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Get("/health", controllers.Health(ServiceName))
	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, p.Readiness))
	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Paystack signs the body; it carries no principal.
		r.Post("/paystack/webhook", webhookcontrollers.PaystackWebhook(p.Paystack, p.Reconciler, cfg.Paystack, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Authenticator, logg))
			// Attached per route: chi resolves the full pattern only at the endpoint.
			idempotent := middleware.Idempotency(p.Idempotency, cfg.Webhooks.RequestKeyTTL, logg)

			r.Route("/gigs", func(r chi.Router) {
				r.Get("/", controllers.GigList(p.Gigs, logg))
				r.Post("/", controllers.GigCreate(p.Gigs, logg))
				r.Get("/tags", controllers.GigTags(p.Gigs, logg))
				r.Route("/{gigId}", func(r chi.Router) {
					r.Get("/", controllers.GigGet(p.Gigs, logg))
					r.Get("/bids", controllers.BidListByGig(p.Bids, logg))
					r.Post("/bids", controllers.BidCreate(p.Bids, logg))
				})
			})

			r.Route("/bids", func(r chi.Router) {
				r.Get("/", controllers.BidListMine(p.Bids, logg))
				r.Route("/{bidId}", func(r chi.Router) {
					r.Get("/", controllers.BidGet(p.Bids, logg))
					r.Patch("/", controllers.BidUpdate(p.Bids, logg))
					r.Post("/counter", controllers.BidCounter(p.Bids, logg))
					r.Post("/reject", controllers.BidReject(p.Bids, logg))
					r.With(idempotent).Post("/accept", controllers.BidAccept(p.Bids, logg))
				})
			})

			r.With(idempotent).Post("/claims", controllers.ClaimCreate(p.Claims, logg))
		})
	})

	return r
}
