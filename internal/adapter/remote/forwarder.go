package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
)

// Forwarder implements ports.SettlementForwarder for the central bank node.
type Forwarder struct {
	client *Client
	encSvc ports.EncryptionService
}

func NewForwarder(client *Client, encSvc ports.EncryptionService) *Forwarder {
	return &Forwarder{client: client, encSvc: encSvc}
}

// ForwardTransaction delivers t to fi. The FI deduplicates by transaction id,
// so redelivery after a lost ack is safe.
func (f *Forwarder) ForwardTransaction(ctx context.Context, fi *domain.FIRecord, t *domain.Transaction) (*domain.SettlementAck, error) {
	key, err := f.keyFor(fi)
	if err != nil {
		return nil, err
	}
	var ack domain.SettlementAck
	err = f.client.do(ctx, call{
		op:      "forward_transaction",
		baseURL: endpoint(fi),
		method:  http.MethodPost,
		path:    "/api/v1/node/settlements",
		key:     key,
		body:    t,
		out:     &ack,
	})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (f *Forwarder) ResolveAccount(ctx context.Context, fi *domain.FIRecord, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	key, err := f.keyFor(fi)
	if err != nil {
		return nil, err
	}
	var res domain.ResolvedAccount
	err = f.client.do(ctx, call{
		op:      "resolve_account",
		baseURL: endpoint(fi),
		method:  http.MethodGet,
		path:    fmt.Sprintf("/api/v1/node/accounts/%s/resolve", accountID),
		key:     key,
		out:     &res,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (f *Forwarder) keyFor(fi *domain.FIRecord) (string, error) {
	if fi.Endpoint == "" {
		return "", apperror.ErrRemoteUnavailable(fmt.Errorf("fi %s has no endpoint", fi.ID))
	}
	secret, err := f.encSvc.Decrypt(fi.SharedSecretEnc)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(fmt.Errorf("decrypt secret of fi %s: %w", fi.ID, err))
	}
	return f.client.KeyFor(secret), nil
}

func endpoint(fi *domain.FIRecord) string {
	return strings.TrimRight(fi.Endpoint, "/")
}
