package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/observability"
	apperrors "github.com/spec-kit/lms-console/pkg/util"
)

// TokenSource supplies the current bearer token, or "" when anonymous. It is
// consulted per request so a gateway built before login still authenticates
// later calls.
type TokenSource func() string

// Payload is a decoded upstream response.
type Payload struct {
	Status int
	Body   []byte
}

// Decode unmarshals the payload body into v.
func (p *Payload) Decode(v any) error {
	if len(p.Body) == 0 {
		return nil
	}
	return json.Unmarshal(p.Body, v)
}

// Gateway wraps outbound calls to the learning service API. It attaches the
// bearer token, coerces the configured origin to an absolute URL, and applies
// the single HTTPS-upgrade retry on transport failures.
type Gateway struct {
	mu      sync.RWMutex
	base    *url.URL
	client  *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewGateway builds a gateway for the given origin.
func NewGateway(origin string, tokens TokenSource, logger *zap.Logger, metrics *observability.Metrics) *Gateway {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Gateway{
		base:    NormalizeOrigin(origin),
		client:  &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// NormalizeOrigin coerces a configured origin into an absolute URL. Origins
// that do not parse as absolute have any scheme remnant stripped and are
// re-prefixed with https.
func NormalizeOrigin(origin string) *url.URL {
	origin = strings.TrimSpace(strings.TrimSuffix(origin, "/"))
	if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
		return u
	}
	trimmed := origin
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}
	u, err := url.Parse("https://" + trimmed)
	if err != nil {
		return &url.URL{Scheme: "https", Host: trimmed}
	}
	return u
}

// Base returns the current base origin.
func (g *Gateway) Base() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.base.String()
}

// SetHTTPClient swaps the underlying client; tests use this to fake transports.
func (g *Gateway) SetHTTPClient(client *http.Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = client
}

// Do issues a request against the upstream API. body is JSON-encoded when
// non-nil. HTTP error statuses are returned as DomainError; transport
// failures are retried once over HTTPS per the recovery policy.
func (g *Gateway) Do(ctx context.Context, method, path string, body any) (*Payload, error) {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	g.mu.RLock()
	base := g.base
	client := g.client
	g.mu.RUnlock()

	start := time.Now()
	resp, err := g.attempt(ctx, client, base, method, path, encoded)
	if err != nil {
		g.metrics.RecordUpstreamFailure(path, method)
		upgraded, retryable := upgradeToHTTPS(base)
		if !retryable {
			return nil, apperrors.NewUpstreamUnavailable(err)
		}
		g.logger.Warn("upstream unreachable, retrying over https",
			zap.String("path", path), zap.Error(err))
		resp, err = g.attempt(ctx, client, upgraded, method, path, encoded)
		if err != nil {
			g.metrics.RecordUpstreamFailure(path, method)
			return nil, apperrors.NewUpstreamUnavailable(err)
		}
		// The secure origin answered: keep it for the rest of the session.
		g.mu.Lock()
		g.base = upgraded
		g.mu.Unlock()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable(err)
	}

	g.metrics.RecordUpstream(path, method, resp.StatusCode, time.Since(start))
	g.logger.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeUpstreamError(resp.StatusCode, raw)
	}
	return &Payload{Status: resp.StatusCode, Body: raw}, nil
}

func (g *Gateway) attempt(ctx context.Context, client *http.Client, base *url.URL, method, path string, body []byte) (*http.Response, error) {
	// path may carry its own query string.
	rel, err := url.Parse(path)
	if err != nil {
		rel = &url.URL{Path: path}
	}
	target := *base
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimPrefix(rel.Path, "/")
	target.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := g.tokens(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return client.Do(req)
}

// upgradeToHTTPS returns the https twin of an insecure base. Loopback hosts
// and already-secure bases are not retried.
func upgradeToHTTPS(base *url.URL) (*url.URL, bool) {
	if base.Scheme != "http" || isLoopback(base.Hostname()) {
		return nil, false
	}
	upgraded := *base
	upgraded.Scheme = "https"
	return &upgraded, true
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// decodeUpstreamError preserves the server's payload for the caller.
func decodeUpstreamError(status int, raw []byte) error {
	details := map[string]any{}
	message := ""

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		details["upstream"] = parsed
		for _, key := range []string{"message", "error", "msg"} {
			if s, ok := parsed[key].(string); ok && s != "" {
				message = s
				break
			}
		}
	} else if len(raw) > 0 {
		details["upstream"] = string(raw)
	}

	return apperrors.NewUpstreamError(status, message, details)
}
