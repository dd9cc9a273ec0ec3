package backend

import (
	"context"
	"net/http"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

var _ provider.AccountGateway = (*Client)(nil)

func (c *Client) Login(ctx context.Context, creds entity.LoginCredentials) (*entity.AuthInfo, error) {
	return c.postAuth(ctx, "login", "/auth/user/login", creds)
}

func (c *Client) Register(ctx context.Context, reg entity.Registration) (*entity.AuthInfo, error) {
	return c.postAuth(ctx, "register", "/auth/user/register", reg)
}

func (c *Client) postAuth(ctx context.Context, op, path string, body interface{}) (*entity.AuthInfo, error) {
	raw, err := c.call(ctx, op, request{method: http.MethodPost, path: path, body: body})
	if err != nil {
		return nil, err
	}

	var info entity.AuthInfo
	if _, err := decode(op, raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
