package backend

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

var _ provider.OrderGateway = (*Client)(nil)

type confirmData struct {
	PaymentURL string `json:"payment_url"`
}

// ConfirmOrder submits an order once, under the order timeout.
func (c *Client) ConfirmOrder(ctx context.Context, token string, req entity.OrderRequest) (*entity.OrderConfirmation, error) {
	const op = "confirm order"

	raw, err := c.call(ctx, op, request{
		method:  http.MethodPost,
		path:    "/orders/order/confirm",
		token:   token,
		body:    req,
		timeout: c.orderTimeout,
	})
	if err != nil {
		return nil, err
	}

	var data confirmData
	env, err := decode(op, raw, &data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("BackendClient: order confirmed",
		zap.String("order_number", req.OrderNumber),
		zap.String("payment_type", string(req.PaymentType)))

	return &entity.OrderConfirmation{
		OrderNumber: req.OrderNumber,
		PaymentURL:  data.PaymentURL,
		Message:     env.Message,
	}, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]entity.OrderRecord, error) {
	var orders []entity.OrderRecord
	if err := c.getJSON(ctx, "list orders", "/orders/order/index", token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*entity.OrderRecord, error) {
	var order entity.OrderRecord
	if err := c.getJSON(ctx, "get order", "/orders/order/show/"+url.PathEscape(orderID), token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
