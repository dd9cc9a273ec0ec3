package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

var _ provider.LicenseGateway = (*Client)(nil)

type activateRequest struct {
	ProductKey string `json:"product_key"`
}

// Activate confirms a distributor product key. A refusal from the backend
// is a result, not an error.
func (c *Client) Activate(ctx context.Context, token, productKey string) (*entity.LicenseActivation, error) {
	const op = "activate license"

	raw, err := c.call(ctx, op, request{
		method: http.MethodPost,
		path:   "/orders/order/distributor/confirm",
		token:  token,
		body:   activateRequest{ProductKey: productKey},
	})
	if err != nil {
		var be *domainErrors.BackendError
		if errors.As(err, &be) && be.StatusCode >= http.StatusBadRequest && be.StatusCode < http.StatusInternalServerError {
			return &entity.LicenseActivation{Success: false, Message: be.Message}, nil
		}
		return nil, err
	}

	var result entity.LicenseActivation
	if err := json.Unmarshal(raw.body, &result); err != nil {
		return nil, &domainErrors.BackendError{Op: op, StatusCode: raw.status, Message: "invalid response body", Cause: err}
	}
	if result.Status == "success" {
		result.Success = true
	}
	return &result, nil
}
