package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cbdc-settlement/internal/core/domain"

	"github.com/google/uuid"
)

// CentralBankClient implements ports.CentralBankClient for an FI node.
type CentralBankClient struct {
	client  *Client
	baseURL string
	key     string
}

// NewCentralBankClient signs every request with the key derived from the
// secret this FI shares with the central bank.
func NewCentralBankClient(client *Client, baseURL, sharedSecret string) *CentralBankClient {
	return &CentralBankClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     client.KeyFor(sharedSecret),
	}
}

// ReportSettlements posts a batch and returns one ack per admitted
// transaction. The central bank stops at the first failure, so the ack list
// may be shorter than the batch.
func (c *CentralBankClient) ReportSettlements(ctx context.Context, batch domain.SettlementBatch) ([]domain.SettlementAck, error) {
	var acks []domain.SettlementAck
	err := c.client.do(ctx, call{
		op:      "report_settlements",
		baseURL: c.baseURL,
		method:  http.MethodPost,
		path:    "/api/v1/cb/reports",
		key:     c.key,
		body:    batch,
		out:     &acks,
	})
	if err != nil {
		return nil, err
	}
	return acks, nil
}

func (c *CentralBankClient) ResolveAccount(ctx context.Context, fiID string, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	var res domain.ResolvedAccount
	err := c.client.do(ctx, call{
		op:      "resolve_account",
		baseURL: c.baseURL,
		method:  http.MethodGet,
		path:    fmt.Sprintf("/api/v1/cb/fis/%s/accounts/%s", url.PathEscape(fiID), accountID),
		key:     c.key,
		out:     &res,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Ping reports whether the central bank answers its health endpoint.
func (c *CentralBankClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("central bank health: status %d", resp.StatusCode)
	}
	return nil
}

// Name returns the dependency name.
func (c *CentralBankClient) Name() string {
	return "central_bank"
}
