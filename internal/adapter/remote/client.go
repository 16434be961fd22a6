// Package remote implements the node-to-node HTTP calls: FI to central bank
// reporting and resolution, and central bank to FI delivery. Every request is
// HMAC-signed with a key derived from the pair's shared secret.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Headers carried by every signed node request.
const (
	HeaderNodeID    = "X-Node-ID"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
	HeaderSignature = "X-Signature"
)

const (
	maxBackoff      = 5 * time.Second
	maxResponseSize = 4 << 20
)

// ErrCircuitOpen is returned without a network call while a peer's breaker is open.
var ErrCircuitOpen = errors.New("circuit open")

// Client sends signed JSON requests with bounded retries and a circuit
// breaker per peer base URL.
type Client struct {
	http    *http.Client
	sigSvc  ports.SignatureService
	nodeID  string
	cfg     config.RemoteConfig
	metrics *metrics.Metrics
	log     zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker

	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.RemoteConfig, nodeID string, sigSvc ports.SignatureService, m *metrics.Metrics, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		sigSvc:   sigSvc,
		nodeID:   nodeID,
		cfg:      cfg,
		metrics:  m,
		log:      log,
		breakers: make(map[string]*CircuitBreaker),
		sleep:    sleepCtx,
	}
}

// NodeID is the identity this client signs as.
func (c *Client) NodeID() string {
	return c.nodeID
}

// KeyFor derives the signing key this node uses with sharedSecret.
func (c *Client) KeyFor(sharedSecret string) string {
	return c.sigSvc.DeriveKey(sharedSecret, c.nodeID)
}

type call struct {
	op      string
	baseURL string
	method  string
	path    string
	key     string
	body    any
	out     any
}

// envelope is the subset of the response body the client reads.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		var err error
		if payload, err = json.Marshal(cl.body); err != nil {
			return apperror.InternalError(fmt.Errorf("marshal %s request: %w", cl.op, err))
		}
	}

	br := c.breaker(cl.baseURL)
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				lastErr = err
				break
			}
		}
		if !br.Allow() {
			c.metrics.IncRemoteCall(cl.op, "circuit_open")
			return apperror.ErrRemoteUnavailable(fmt.Errorf("%w: %s", ErrCircuitOpen, cl.baseURL))
		}

		retry, err := c.attempt(ctx, cl, payload)
		if err == nil {
			br.RecordSuccess()
			c.metrics.IncRemoteCall(cl.op, "ok")
			return nil
		}
		lastErr = err
		if !retry {
			// The peer answered, so it is reachable.
			br.RecordSuccess()
			c.metrics.IncRemoteCall(cl.op, "rejected")
			return err
		}

		br.RecordFailure()
		c.metrics.IncRemoteCall(cl.op, "error")
		c.log.Warn().Err(err).
			Str("op", cl.op).
			Str("peer", cl.baseURL).
			Int("attempt", attempt+1).
			Msg("remote call failed")
	}

	if ctx.Err() != nil {
		return apperror.ErrSyncTimeout(lastErr)
	}
	return apperror.ErrRemoteUnavailable(lastErr)
}

// attempt performs one signed request. retry reports whether a failure may
// succeed on another attempt.
func (c *Client) attempt(ctx context.Context, cl call, payload []byte) (retry bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, cl.baseURL+cl.path, body)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("build %s request: %w", cl.op, err))
	}

	ts := time.Now().Unix()
	nonce := uuid.NewString()
	canonical := c.sigSvc.BuildCanonicalString(req.Method, req.URL.Path, ts, nonce, string(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderNodeID, c.nodeID)
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderSignature, c.sigSvc.Sign(cl.key, canonical))

	resp, err := c.http.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return true, fmt.Errorf("read %s response: %w", cl.op, err)
	}
	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if cl.out == nil {
			return false, nil
		}
		if err := json.Unmarshal(env.Data, cl.out); err != nil {
			return false, apperror.InternalError(fmt.Errorf("decode %s response: %w", cl.op, err))
		}
		return false, nil
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("%s: status %d %s", cl.op, resp.StatusCode, env.ErrorCode)
	}

	code := env.ErrorCode
	if code == "" {
		code = "SYS_001"
	}
	return false, apperror.New(code, env.Message, resp.StatusCode)
}

func (c *Client) breaker(baseURL string) *CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	br, ok := c.breakers[baseURL]
	if !ok {
		br = NewCircuitBreaker(c.cfg.BreakerThreshold, c.cfg.BreakerCooldown)
		c.breakers[baseURL] = br
	}
	return br
}

// backoff doubles per attempt up to maxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.Backoff
	if d <= 0 {
		return 0
	}
	for i := 1; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
