package intents

import (
	"context"
	"time"

	"github.com/jmfarina/payments-backend/pkg/db/models"
	"github.com/jmfarina/payments-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an intents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, intent *models.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&intent).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *repository) List(ctx context.Context, status *enums.IntentStatus) ([]models.PaymentIntent, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentIntent{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var intents []models.PaymentIntent
	err := query.
		Order("created_at DESC").
		Order("seq ASC").
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}

func (r *repository) FindExpirable(ctx context.Context, now time.Time) ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", enums.IntentStatusPendingConfirmation, now).
		Order("expires_at ASC").
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, id string, expected enums.IntentStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentIntent{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
