package middleware_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/adapter/http/middleware"
	"cbdc-settlement/internal/adapter/remote"
	redisStore "cbdc-settlement/internal/adapter/storage/redis"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/service"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiASecret = "fi-a-shared-secret-0123456789abcdef"

// cbReportsServer mimics the central bank intake behind real node auth.
func cbReportsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	lookup := func(_ context.Context, nodeID string) (string, error) {
		if nodeID == "FI-A" {
			return fiASecret, nil
		}
		return "", apperror.ErrInvalidNodeID()
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := middleware.NodeHMACAuth(lookup, service.NewHMACSignatureService(), redisStore.NewNonceStore(rc), time.Minute, zerolog.Nop())
	router.POST("/api/v1/cb/reports", auth, func(c *gin.Context) {
		var batch domain.SettlementBatch
		if err := c.ShouldBindJSON(&batch); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		acks := make([]domain.SettlementAck, 0, len(batch.Transactions))
		for _, tx := range batch.Transactions {
			acks = append(acks, domain.SettlementAck{TransactionID: tx.ID, Outcome: domain.SettlementAccepted})
		}
		response.OK(c, acks)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestNodeHMACAuth_AcceptsRemoteClientSignatures(t *testing.T) {
	srv := cbReportsServer(t)
	sigSvc := service.NewHMACSignatureService()
	cfg := config.RemoteConfig{Timeout: time.Second}

	client := remote.NewClient(cfg, "FI-A", sigSvc, nil, zerolog.Nop())
	cb := remote.NewCentralBankClient(client, srv.URL, fiASecret)

	txID := uuid.New()
	batch := domain.SettlementBatch{SourceFI: "FI-A", Transactions: []domain.Transaction{{ID: txID, Amount: 5}}}
	acks, err := cb.ReportSettlements(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, acks, 1)
	assert.Equal(t, txID, acks[0].TransactionID)

	// Each call carries a fresh nonce, so a second report is accepted too.
	_, err = cb.ReportSettlements(context.Background(), batch)
	require.NoError(t, err)
}

func TestNodeHMACAuth_RejectsWrongSecretAndUnknownNode(t *testing.T) {
	srv := cbReportsServer(t)
	sigSvc := service.NewHMACSignatureService()
	cfg := config.RemoteConfig{Timeout: time.Second}
	batch := domain.SettlementBatch{SourceFI: "FI-A"}

	wrongKey := remote.NewCentralBankClient(remote.NewClient(cfg, "FI-A", sigSvc, nil, zerolog.Nop()), srv.URL, "not-the-shared-secret-0123456789ab")
	_, err := wrongKey.ReportSettlements(context.Background(), batch)
	assert.Equal(t, "SEC_002", apperror.Code(err))

	imposter := remote.NewCentralBankClient(remote.NewClient(cfg, "FI-Z", sigSvc, nil, zerolog.Nop()), srv.URL, fiASecret)
	_, err = imposter.ReportSettlements(context.Background(), batch)
	assert.Equal(t, "SEC_001", apperror.Code(err))
}
