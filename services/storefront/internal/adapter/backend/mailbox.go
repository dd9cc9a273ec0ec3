package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// MailboxClient asks the mail provider whether a storefront mailbox is free.
type MailboxClient struct {
	client *http.Client
	url    string
	apiKey string
	domain string
	logger *zap.Logger
}

var _ provider.MailboxChecker = (*MailboxClient)(nil)

// NewMailboxClient creates a mailbox availability client
func NewMailboxClient(cfg config.MailboxConfig, logger *zap.Logger) *MailboxClient {
	return &MailboxClient{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		domain: cfg.Domain,
		logger: logger,
	}
}

type mailboxRequest struct {
	Params []string `json:"params"`
}

type mailboxResponse struct {
	Code int `json:"code"`
}

// Available reports whether address can be registered. Bare names get the
// configured mail domain appended.
func (m *MailboxClient) Available(ctx context.Context, address string) (bool, error) {
	const op = "check mailbox"

	address = strings.ToLower(strings.TrimSpace(address))
	if !strings.Contains(address, "@") && m.domain != "" {
		address = address + "@" + m.domain
	}

	payload, err := json.Marshal(mailboxRequest{Params: []string{"--info", address}})
	if err != nil {
		return false, fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("MailboxClient: HTTP request failed",
			zap.String("address", address),
			zap.Error(err))
		return false, domainErrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, domainErrors.NewStatusError(op, resp.StatusCode, "")
	}

	var result mailboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &domainErrors.BackendError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response body", Cause: err}
	}

	m.logger.Debug("MailboxClient: mailbox checked",
		zap.String("address", address),
		zap.Int("code", result.Code))

	return result.Code == 1, nil
}
