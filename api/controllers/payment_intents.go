package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jmfarina/payments-backend/api/responses"
	"github.com/jmfarina/payments-backend/api/validators"
	"github.com/jmfarina/payments-backend/internal/intents"
	"github.com/jmfarina/payments-backend/pkg/db/models"
	pkgerrors "github.com/jmfarina/payments-backend/pkg/errors"
	"github.com/jmfarina/payments-backend/pkg/logger"
)

type paymentIntentCreateRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency" validate:"required"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
}

type paymentIntentResponse struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CapturedAt  *time.Time      `json:"captured_at,omitempty"`
	ReversedAt  *time.Time      `json:"reversed_at,omitempty"`
	ExpiredAt   *time.Time      `json:"expired_at,omitempty"`
}

func toPaymentIntentResponse(intent *models.PaymentIntent) paymentIntentResponse {
	return paymentIntentResponse{
		ID:          intent.ID,
		Status:      intent.Status.String(),
		Amount:      intent.Amount,
		Currency:    intent.Currency.String(),
		Description: intent.Description,
		CreatedAt:   intent.CreatedAt,
		UpdatedAt:   intent.UpdatedAt,
		ConfirmedAt: intent.ConfirmedAt,
		ExpiresAt:   intent.ExpiresAt,
		CapturedAt:  intent.CapturedAt,
		ReversedAt:  intent.ReversedAt,
		ExpiredAt:   intent.ExpiredAt,
	}
}

// PaymentIntentCreate handles POST /api/payment-intents.
func PaymentIntentCreate(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment intents service unavailable"))
			return
		}

		var payload paymentIntentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.Create(r.Context(), intents.CreateInput{
			Amount:      payload.Amount,
			Currency:    strings.TrimSpace(payload.Currency),
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toPaymentIntentResponse(intent))
	}
}

// PaymentIntentGet handles GET /api/payment-intents/{intentID}.
func PaymentIntentGet(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment intents service unavailable"))
			return
		}

		intent, err := svc.GetByID(r.Context(), chi.URLParam(r, "intentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPaymentIntentResponse(intent))
	}
}

// PaymentIntentList handles GET /api/payment-intents with an optional
// ?status= filter.
func PaymentIntentList(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment intents service unavailable"))
			return
		}

		status, err := validators.ParseStatusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]paymentIntentResponse, 0, len(list))
		for i := range list {
			out = append(out, toPaymentIntentResponse(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// PaymentIntentConfirm handles POST /api/payment-intents/{intentID}/confirm.
func PaymentIntentConfirm(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(svc intents.Service, ctx context.Context, id string) (*models.PaymentIntent, error) {
		return svc.Confirm(ctx, id)
	})
}

// PaymentIntentCapture handles POST /api/payment-intents/{intentID}/capture.
func PaymentIntentCapture(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(svc intents.Service, ctx context.Context, id string) (*models.PaymentIntent, error) {
		return svc.Capture(ctx, id)
	})
}

// PaymentIntentReverse handles POST /api/payment-intents/{intentID}/reverse.
func PaymentIntentReverse(svc intents.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(svc intents.Service, ctx context.Context, id string) (*models.PaymentIntent, error) {
		return svc.Reverse(ctx, id)
	})
}

func transitionHandler(
	svc intents.Service,
	logg *logger.Logger,
	apply func(svc intents.Service, ctx context.Context, id string) (*models.PaymentIntent, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment intents service unavailable"))
			return
		}

		intent, err := apply(svc, r.Context(), chi.URLParam(r, "intentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPaymentIntentResponse(intent))
	}
}
