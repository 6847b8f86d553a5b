package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmfarina/payments-backend/api/controllers"
	"github.com/jmfarina/payments-backend/api/middleware"
	"github.com/jmfarina/payments-backend/internal/intents"
	"github.com/jmfarina/payments-backend/pkg/config"
	"github.com/jmfarina/payments-backend/pkg/db"
	"github.com/jmfarina/payments-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP db.Pinger,
	intentsService intents.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/healthz", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/payment-intents", func(r chi.Router) {
		r.Post("/", controllers.PaymentIntentCreate(intentsService, logg))
		r.Get("/", controllers.PaymentIntentList(intentsService, logg))
		r.Route("/{intentID}", func(r chi.Router) {
			r.Get("/", controllers.PaymentIntentGet(intentsService, logg))
			r.Post("/confirm", controllers.PaymentIntentConfirm(intentsService, logg))
			r.Post("/capture", controllers.PaymentIntentCapture(intentsService, logg))
			r.Post("/reverse", controllers.PaymentIntentReverse(intentsService, logg))
		})
	})

	return r
}
