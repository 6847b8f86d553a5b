package intents

import (
	"fmt"
	"time"

	"github.com/jmfarina/payments-backend/pkg/db/models"
	"github.com/jmfarina/payments-backend/pkg/enums"
	pkgerrors "github.com/jmfarina/payments-backend/pkg/errors"
)

// Action names a user- or time-triggered transition request.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCapture Action = "capture"
	ActionReverse Action = "reverse"
	ActionExpire  Action = "expire"
)

// transition declares the legal source statuses for an action and the status
// it produces. Every write that changes status goes through applyTo, so a row
// can never end up with a column combination the table does not produce
// (e.g. captured with a live expires_at).
type transition struct {
	from []enums.IntentStatus
	to   enums.IntentStatus
}

var transitions = map[Action]transition{
	ActionConfirm: {
		from: []enums.IntentStatus{enums.IntentStatusCreated},
		to:   enums.IntentStatusPendingConfirmation,
	},
	ActionCapture: {
		from: []enums.IntentStatus{enums.IntentStatusPendingConfirmation},
		to:   enums.IntentStatusCaptured,
	},
	ActionReverse: {
		from: []enums.IntentStatus{enums.IntentStatusCreated, enums.IntentStatusPendingConfirmation},
		to:   enums.IntentStatusReversed,
	},
	ActionExpire: {
		from: []enums.IntentStatus{enums.IntentStatusPendingConfirmation},
		to:   enums.IntentStatusExpired,
	},
}

func (t transition) allowedFrom(status enums.IntentStatus) bool {
	for _, candidate := range t.from {
		if candidate == status {
			return true
		}
	}
	return false
}

// updatesFor builds the column updates the action produces at the given
// instant. expires_at is live only while the intent is pending confirmation:
// confirm arms it, every exit from pending clears it.
func (t transition) updatesFor(action Action, now time.Time, expirationTimeout time.Duration) map[string]any {
	updates := map[string]any{
		"status":     t.to,
		"updated_at": now,
	}
	switch action {
	case ActionConfirm:
		updates["confirmed_at"] = now
		updates["expires_at"] = now.Add(expirationTimeout)
	case ActionCapture:
		updates["captured_at"] = now
		updates["expires_at"] = nil
	case ActionReverse:
		updates["reversed_at"] = now
		updates["expires_at"] = nil
	case ActionExpire:
		updates["expired_at"] = now
		updates["expires_at"] = nil
	}
	return updates
}

// applyTo mirrors updatesFor onto the in-memory record so callers get the
// post-transition model without a re-read.
func (t transition) applyTo(intent *models.PaymentIntent, action Action, now time.Time, expirationTimeout time.Duration) {
	intent.Status = t.to
	intent.UpdatedAt = now
	switch action {
	case ActionConfirm:
		confirmedAt := now
		expiresAt := now.Add(expirationTimeout)
		intent.ConfirmedAt = &confirmedAt
		intent.ExpiresAt = &expiresAt
	case ActionCapture:
		capturedAt := now
		intent.CapturedAt = &capturedAt
		intent.ExpiresAt = nil
	case ActionReverse:
		reversedAt := now
		intent.ReversedAt = &reversedAt
		intent.ExpiresAt = nil
	case ActionExpire:
		expiredAt := now
		intent.ExpiredAt = &expiredAt
		intent.ExpiresAt = nil
	}
}

func invalidTransitionError(action Action, current enums.IntentStatus) *pkgerrors.Error {
	msg := fmt.Sprintf("cannot %s payment intent in status %s", action, current)
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).WithDetails(map[string]any{
		"status": current,
		"action": action,
	})
}
