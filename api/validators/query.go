package validators

import (
	"net/http"
	"strings"

	"github.com/jmfarina/payments-backend/pkg/enums"
	pkgerrors "github.com/jmfarina/payments-backend/pkg/errors"
)

// ParseStatusFilter reads the optional ?status= query parameter. A missing or
// blank value means no filter; an unrecognized value is a client error.
func ParseStatusFilter(r *http.Request) (*enums.IntentStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseIntentStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter").
			WithDetails(map[string]any{"field": "status", "value": raw})
	}
	return &status, nil
}
