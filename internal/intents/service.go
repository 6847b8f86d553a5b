package intents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/jmfarina/payments-backend/pkg/db/models"
	"github.com/jmfarina/payments-backend/pkg/enums"
	pkgerrors "github.com/jmfarina/payments-backend/pkg/errors"
	"github.com/jmfarina/payments-backend/pkg/logger"
)

// CreateInput carries the caller-provided fields for a new intent.
type CreateInput struct {
	Amount      decimal.Decimal
	Currency    string
	Description *string
}

// Service owns the payment intent state machine. It is the only writer of
// intent rows; the expiration worker goes through ExpirePending rather than
// touching storage itself.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.PaymentIntent, error)
	GetByID(ctx context.Context, id string) (*models.PaymentIntent, error)
	List(ctx context.Context, status *enums.IntentStatus) ([]models.PaymentIntent, error)
	Confirm(ctx context.Context, id string) (*models.PaymentIntent, error)
	Capture(ctx context.Context, id string) (*models.PaymentIntent, error)
	Reverse(ctx context.Context, id string) (*models.PaymentIntent, error)
	ExpirePending(ctx context.Context, now time.Time) (int, error)
}

// ServiceParams configure the intents service.
type ServiceParams struct {
	Repo              Repository
	Logger            *logger.Logger
	ExpirationTimeout time.Duration
}

type service struct {
	repo              Repository
	logg              *logger.Logger
	expirationTimeout time.Duration
	now               func() time.Time
}

const defaultExpirationTimeout = 120 * time.Second

// NewService builds a payment intents service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("intents repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := params.ExpirationTimeout
	if timeout <= 0 {
		timeout = defaultExpirationTimeout
	}
	return &service{
		repo:              params.Repo,
		logg:              params.Logger,
		expirationTimeout: timeout,
		now:               time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PaymentIntent, error) {
	if input.Amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	currency, err := enums.ParseCurrency(input.Currency)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, supportedCurrenciesMessage())
	}

	now := s.now().UTC()
	intent := &models.PaymentIntent{
		ID:          newIntentID(),
		Status:      enums.IntentStatusCreated,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment intent")
	}

	s.logg.Info(s.logg.WithIntentID(ctx, intent.ID), "payment intent created")
	return intent, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	intent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("payment intent %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment intent")
	}
	return intent, nil
}

func (s *service) List(ctx context.Context, status *enums.IntentStatus) ([]models.PaymentIntent, error) {
	intents, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment intents")
	}
	return intents, nil
}

func (s *service) Confirm(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return s.transition(ctx, id, ActionConfirm)
}

func (s *service) Capture(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return s.transition(ctx, id, ActionCapture)
}

func (s *service) Reverse(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return s.transition(ctx, id, ActionReverse)
}

// transition applies the state machine for a single user-triggered action.
// The write is conditional on the status observed at read time; losing the
// race surfaces the same error the precondition check would have produced.
func (s *service) transition(ctx context.Context, id string, action Action) (*models.PaymentIntent, error) {
	intent, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tr := transitions[action]
	if !tr.allowedFrom(intent.Status) {
		return nil, invalidTransitionError(action, intent.Status)
	}

	now := s.now().UTC()
	updates := tr.updatesFor(action, now, s.expirationTimeout)

	ok, err := s.repo.UpdateIfStatus(ctx, intent.ID, intent.Status, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment intent")
	}
	if !ok {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, invalidTransitionError(action, current.Status)
	}

	tr.applyTo(intent, action, now, s.expirationTimeout)

	logCtx := s.logg.WithFields(ctx, map[string]any{"intent_id": intent.ID, "action": action})
	s.logg.Info(logCtx, "payment intent transitioned")
	return intent, nil
}

// ExpirePending moves every pending intent whose deadline has passed to
// expired. Records are handled independently: one record failing does not
// abort the rest, and a record already captured or reversed by a racing
// caller is simply skipped. Returns how many intents were expired.
func (s *service) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	expirable, err := s.repo.FindExpirable(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query expirable payment intents")
	}

	tr := transitions[ActionExpire]
	count := 0
	var errs []error
	for _, intent := range expirable {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}

		updates := tr.updatesFor(ActionExpire, now, s.expirationTimeout)
		ok, err := s.repo.UpdateIfStatus(ctx, intent.ID, enums.IntentStatusPendingConfirmation, updates)
		if err != nil {
			logCtx := s.logg.WithIntentID(ctx, intent.ID)
			s.logg.Error(logCtx, "failed to expire payment intent", err)
			errs = append(errs, fmt.Errorf("expire %s: %w", intent.ID, err))
			continue
		}
		if !ok {
			// Lost the race against capture/reverse. Nothing to do.
			continue
		}

		count++
		s.logg.Info(s.logg.WithIntentID(ctx, intent.ID), "payment intent expired")
	}

	return count, multierr.Combine(errs...)
}

func newIntentID() string {
	return "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func supportedCurrenciesMessage() string {
	supported := enums.SupportedCurrencies()
	codes := make([]string, len(supported))
	for i, c := range supported {
		codes[i] = c.String()
	}
	return "invalid currency, valid currencies: " + strings.Join(codes, ", ")
}
