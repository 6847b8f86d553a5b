package intents

import (
	"context"
	"time"

	"github.com/jmfarina/payments-backend/pkg/db/models"
	"github.com/jmfarina/payments-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the payment_intents table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, intent *models.PaymentIntent) error
	FindByID(ctx context.Context, id string) (*models.PaymentIntent, error)
	List(ctx context.Context, status *enums.IntentStatus) ([]models.PaymentIntent, error)
	FindExpirable(ctx context.Context, now time.Time) ([]models.PaymentIntent, error)
	// UpdateIfStatus applies updates only when the stored status still equals
	// expected, reporting whether a row was written. A false return with a
	// nil error means the precondition failed.
	UpdateIfStatus(ctx context.Context, id string, expected enums.IntentStatus, updates map[string]any) (bool, error)
}
