package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/adapter/remote"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/internal/core/ports/mocks"
	"cbdc-settlement/internal/service"
	"cbdc-settlement/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	operatorToken = "operator-token"
	cbSecret      = "cb-shared-secret-0123456789abcdef"
)

type routerFixture struct {
	router     *gin.Engine
	accounts   *mocks.MockAccountService
	settlement *mocks.MockSettlementService
	cb         *mocks.MockCentralBankService
	nullifiers *mocks.MockNullifierService
	sig        ports.SignatureService
}

func newRouterFixture(t *testing.T, role, nodeID string, reg *prometheus.Registry) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	tokens := mocks.NewMockTokenService(ctrl)
	tokens.EXPECT().Validate(operatorToken).Return(&ports.TokenClaims{Subject: "ops", NodeID: nodeID}, nil).AnyTimes()
	tokens.EXPECT().Validate(gomock.Not(operatorToken)).Return(nil, assert.AnError).AnyTimes()

	nonces := mocks.NewMockNonceStore(ctrl)
	nonces.EXPECT().CheckAndSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	f := &routerFixture{
		accounts:   mocks.NewMockAccountService(ctrl),
		settlement: mocks.NewMockSettlementService(ctrl),
		cb:         mocks.NewMockCentralBankService(ctrl),
		nullifiers: mocks.NewMockNullifierService(ctrl),
		sig:        service.NewHMACSignatureService(),
	}

	deps := RouterDeps{
		Role:              role,
		NodeID:            nodeID,
		AuthSvc:           mocks.NewMockAuthService(ctrl),
		TokenSvc:          tokens,
		SigSvc:            f.sig,
		NonceStore:        nonces,
		SignatureWindow:   time.Minute,
		ReportingSvc:      mocks.NewMockReportingService(ctrl),
		Logger:            zerolog.Nop(),
		AccountSvc:        f.accounts,
		ComplianceSvc:     mocks.NewMockComplianceService(ctrl),
		OfflineSvc:        mocks.NewMockOfflineService(ctrl),
		SyncSvc:           mocks.NewMockSyncService(ctrl),
		SettlementSvc:     f.settlement,
		CentralBankNodeID: "CB",
		CentralBankSecret: cbSecret,
		CentralBankSvc:    f.cb,
		NullifierSvc:      f.nullifiers,
	}
	if reg != nil {
		deps.Metrics = metrics.New(reg)
		deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	f.router = SetupRouter(deps)
	gin.SetMode(gin.TestMode)
	return f
}

func (f *routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func operatorRequest(method, path string, body interface{}) *http.Request {
	req := jsonRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+operatorToken)
	return req
}

// signedRequest signs a request the way remote.Client does for nodeID.
func signedRequest(sig ports.SignatureService, method, path, nodeID, secret string, body []byte) *http.Request {
	ts := time.Now().Unix()
	nonce := uuid.NewString()
	canonical := sig.BuildCanonicalString(method, path, ts, nonce, string(body))

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(remote.HeaderNodeID, nodeID)
	req.Header.Set(remote.HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(remote.HeaderNonce, nonce)
	req.Header.Set(remote.HeaderSignature, sig.Sign(sig.DeriveKey(secret, nodeID), canonical))
	return req
}

func TestRouter_OperatorRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t, config.RoleFI, "FI-A", nil)

	w := f.serve(jsonRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_003", decode(t, w)["error_code"])

	req := jsonRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, f.serve(req).Code)
}

func TestRouter_TokenFromAnotherNodeRejected(t *testing.T) {
	tokens := mocks.NewMockTokenService(gomock.NewController(t))
	tokens.EXPECT().Validate(operatorToken).Return(&ports.TokenClaims{Subject: "ops", NodeID: "FI-A"}, nil)

	r := SetupRouter(RouterDeps{
		Role:     config.RoleFI,
		NodeID:   "FI-B",
		TokenSvc: tokens,
		Logger:   zerolog.Nop(),
	})
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, operatorRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_FIMountsOperatorRoutes(t *testing.T) {
	f := newRouterFixture(t, config.RoleFI, "FI-A", nil)

	id := uuid.New()
	f.accounts.EXPECT().GetAccount(gomock.Any(), id).Return(sampleWallet(id), nil)

	w := f.serve(operatorRequest(http.MethodGet, "/api/v1/accounts/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decode(t, w)["data"].(map[string]interface{})["id"])

	// Central bank routes are not mounted on an FI.
	assert.Equal(t, http.StatusNotFound, f.serve(operatorRequest(http.MethodGet, "/api/v1/fis", nil)).Code)
}

func TestRouter_CentralBankMountsOperatorRoutes(t *testing.T) {
	f := newRouterFixture(t, config.RoleCentralBank, "CB", nil)

	f.cb.EXPECT().ListFIs(gomock.Any()).Return([]domain.FIRecord{{ID: "FI-A", Status: domain.FIStatusActive}}, nil)

	w := f.serve(operatorRequest(http.MethodGet, "/api/v1/fis", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]interface{}), 1)

	assert.Equal(t, http.StatusNotFound, f.serve(operatorRequest(http.MethodPost, "/api/v1/transfers", nil)).Code)
}

func TestRouter_NodeSettlementSignedByCentralBank(t *testing.T) {
	f := newRouterFixture(t, config.RoleFI, "FI-B", nil)

	tx := domain.Transaction{
		ID:          uuid.New(),
		ToAccountID: uuid.New(),
		Amount:      400,
		Kind:        domain.TransactionKindCrossFITransfer,
		SourceFI:    "FI-A",
		TargetFI:    "FI-B",
		Timestamp:   time.Now().UTC(),
	}
	body, err := json.Marshal(tx)
	require.NoError(t, err)

	f.settlement.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(&domain.SettlementAck{
		TransactionID: tx.ID,
		Outcome:       domain.SettlementAccepted,
	}, nil)

	w := f.serve(signedRequest(f.sig, http.MethodPost, "/api/v1/node/settlements", "CB", cbSecret, body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accepted", decode(t, w)["data"].(map[string]interface{})["outcome"])
}

func TestRouter_NodeRoutesRejectOtherSigners(t *testing.T) {
	f := newRouterFixture(t, config.RoleFI, "FI-B", nil)
	path := "/api/v1/node/accounts/" + uuid.NewString() + "/resolve"

	// Another FI may not call the node surface directly.
	w := f.serve(signedRequest(f.sig, http.MethodGet, path, "FI-A", cbSecret, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_001", decode(t, w)["error_code"])

	w = f.serve(signedRequest(f.sig, http.MethodGet, path, "CB", "not-the-shared-secret-0123456789ab", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_002", decode(t, w)["error_code"])

	// Operator tokens do not open node routes.
	assert.Equal(t, http.StatusUnauthorized, f.serve(operatorRequest(http.MethodGet, path, nil)).Code)
}

func TestRouter_CentralBankReportIntake(t *testing.T) {
	f := newRouterFixture(t, config.RoleCentralBank, "CB", nil)
	fiSecret := "fi-a-shared-secret-0123456789abcdef"

	f.cb.EXPECT().FISecret(gomock.Any(), "FI-A").Return(fiSecret, nil).Times(2)
	txID := uuid.New()
	f.cb.EXPECT().AdmitSettlements(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementAck{{TransactionID: txID, Outcome: domain.SettlementAccepted}}, nil)

	body, err := json.Marshal(domain.SettlementBatch{
		SourceFI:     "FI-A",
		Transactions: []domain.Transaction{{ID: txID, Amount: 10, Kind: domain.TransactionKindOfflineTransfer}},
	})
	require.NoError(t, err)

	w := f.serve(signedRequest(f.sig, http.MethodPost, "/api/v1/cb/reports", "FI-A", fiSecret, body))
	assert.Equal(t, http.StatusOK, w.Code)

	// FI-A signing a batch that claims to come from FI-B.
	spoofed, err := json.Marshal(domain.SettlementBatch{SourceFI: "FI-B"})
	require.NoError(t, err)
	w = f.serve(signedRequest(f.sig, http.MethodPost, "/api/v1/cb/reports", "FI-A", fiSecret, spoofed))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_001", decode(t, w)["error_code"])
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newRouterFixture(t, config.RoleFI, "FI-A", reg)

	w := f.serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FI-A", decode(t, w)["node_id"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = f.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cbdc_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/api/v1/health"`)
}

func TestRouter_MetricsNotServedWithoutHandler(t *testing.T) {
	f := newRouterFixture(t, config.RoleFI, "FI-A", nil)
	assert.Equal(t, http.StatusNotFound, f.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestRouter_AuditListWithoutAuditService(t *testing.T) {
	f := newRouterFixture(t, config.RoleCentralBank, "CB", nil)

	w := f.serve(operatorRequest(http.MethodGet, "/api/v1/audit", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, []interface{}{}, resp["data"])
	assert.Equal(t, float64(0), resp["meta"].(map[string]interface{})["total"])
}
