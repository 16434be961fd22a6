package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cbdc-settlement/internal/adapter/remote"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID is echoed back on every response.
	HeaderRequestID = "X-Request-ID"

	// Default max timestamp drift for signed node requests.
	defaultSignatureWindow = 60 * time.Second

	// Context keys
	CtxNodeID    = "node_id"
	CtxOperator  = "operator"
	CtxRequestID = "request_id"
)

// SecretLookup returns the shared secret a peer node signs with. It returns an
// *apperror.AppError when the node is unknown or not allowed in.
type SecretLookup func(ctx context.Context, nodeID string) (string, error)

// StaticSecret authenticates exactly one peer, as an FI does for its central bank.
func StaticSecret(nodeID, secret string) SecretLookup {
	return func(_ context.Context, id string) (string, error) {
		if id != nodeID || secret == "" {
			return "", apperror.ErrInvalidNodeID()
		}
		return secret, nil
	}
}

// NodeHMACAuth verifies HMAC-SHA256 signatures on node-to-node requests.
// Pipeline: Check timestamp -> Lookup secret -> Check nonce -> Verify signature.
func NodeHMACAuth(
	lookup SecretLookup,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	window time.Duration,
	log zerolog.Logger,
) gin.HandlerFunc {
	if window <= 0 {
		window = defaultSignatureWindow
	}
	nonceTTL := 2 * window

	return func(c *gin.Context) {
		nodeID := c.GetHeader(remote.HeaderNodeID)
		signature := c.GetHeader(remote.HeaderSignature)
		timestampStr := c.GetHeader(remote.HeaderTimestamp)
		nonce := c.GetHeader(remote.HeaderNonce)

		if nodeID == "" {
			response.Error(c, apperror.ErrInvalidNodeID())
			c.Abort()
			return
		}
		if signature == "" || timestampStr == "" || nonce == "" {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		// Step 1: Timestamp check
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}
		now := time.Now().Unix()
		if math.Abs(float64(now-timestamp)) > window.Seconds() {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		// Step 2: Lookup peer secret
		secret, err := lookup(c.Request.Context(), nodeID)
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				log.Error().Err(err).Str("node_id", nodeID).Msg("failed to fetch node secret")
				err = apperror.InternalError(err)
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		// Step 3: Nonce check
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), nodeID, nonce, nonceTTL)
		if err != nil {
			log.Warn().Err(err).Msg("nonce store error, allowing request")
		} else if !isNew {
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		// Step 4: Signature verification
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		canonical := sigSvc.BuildCanonicalString(
			c.Request.Method,
			c.Request.URL.Path,
			timestamp,
			nonce,
			string(bodyBytes),
		)

		if !sigSvc.Verify(sigSvc.DeriveKey(secret, nodeID), canonical, signature) {
			log.Warn().Str("node_id", nodeID).Str("path", c.Request.URL.Path).Msg("node signature rejected")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		c.Set(CtxNodeID, nodeID)
		c.Next()
	}
}

// JWTAuth validates operator tokens. Tokens minted by another node are refused.
func JWTAuth(tokenSvc ports.TokenService, nodeID string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}
		if claims.NodeID != nodeID {
			log.Warn().Str("token_node", claims.NodeID).Str("operator", claims.Subject).Msg("token issued for another node")
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxOperator, claims.Subject)
		c.Next()
	}
}

// RequestID propagates X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(CtxRequestID)).
			Msg("http request")
	}
}

// Metrics counts requests by route template so ids do not explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncHTTPRequest(route, c.Request.Method, c.Writer.Status())
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
