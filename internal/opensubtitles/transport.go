package opensubtitles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kolo/xmlrpc"

	"subseek/internal/logging"
)

const (
	// DefaultEndpoint is the public XML-RPC catalog.
	DefaultEndpoint = "http://api.opensubtitles.org/xml-rpc"

	contentTypeXML   = `text/xml; charset="UTF-8"`
	maxResponseBytes = 32 << 20
	maxErrorSnippet  = 512
	redactedValue    = "********"
)

// Invoker performs one remote procedure call and returns its first result
// value.
type Invoker interface {
	Invoke(ctx context.Context, method string, params ...any) (any, error)
}

// TransportConfig describes how calls reach the catalog.
type TransportConfig struct {
	Endpoint  string
	UserAgent string
	// Compress gzips request bodies and advertises gzip responses.
	Compress bool
	// RawFallback decodes an undecompressable gzip answer as plain XML
	// instead of failing.
	RawFallback bool
	// Proxy overrides HTTP_PROXY/HTTPS_PROXY/NO_PROXY when set.
	Proxy string
	// Zero timeouts block indefinitely.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
	// Observer, when set, sees the method, latency, and error of every call.
	Observer CallObserver
}

// CallObserver receives one notification per finished Invoke.
type CallObserver interface {
	ObserveCall(method string, elapsed time.Duration, err error)
}

// Transport carries XML-RPC calls over HTTP.
type Transport struct {
	endpoint    string
	userAgent   string
	compress    bool
	rawFallback bool
	http        *http.Client
	logger      *slog.Logger
	observer    CallObserver
}

// NewTransport validates cfg and builds a Transport.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("opensubtitles: endpoint %q must use http or https", endpoint)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := cfg.HTTPClient
	if client == nil {
		client, err = newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Transport{
		endpoint:    endpoint,
		userAgent:   userAgent,
		compress:    cfg.Compress,
		rawFallback: cfg.RawFallback,
		http:        client,
		logger:      logging.NewComponentLogger(logger, "transport"),
		observer:    cfg.Observer,
	}, nil
}

func newHTTPClient(cfg TransportConfig) (*http.Client, error) {
	proxy := http.ProxyFromEnvironment
	if raw := strings.TrimSpace(cfg.Proxy); raw != "" {
		proxyURL, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("opensubtitles: parse proxy: %w", err)
		}
		proxy = http.ProxyURL(proxyURL)
	}
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 proxy,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			// Decompression is driven by Content-Encoding below, never implicitly.
			DisableCompression: true,
			MaxIdleConns:       4,
			IdleConnTimeout:    90 * time.Second,
		},
	}, nil
}

// Endpoint returns the catalog URL calls are posted to.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// Invoke encodes method and params as an XML-RPC call, posts it, and decodes
// the answer.
func (t *Transport) Invoke(ctx context.Context, method string, params ...any) (any, error) {
	started := time.Now()
	result, err := t.invoke(ctx, method, started, params)
	if t.observer != nil {
		t.observer.ObserveCall(method, time.Since(started), err)
	}
	return result, err
}

func (t *Transport) invoke(ctx context.Context, method string, started time.Time, params []any) (any, error) {
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, t.logger).With(logging.Args(logging.String(logging.FieldMethod, method))...)

	body, err := xmlrpc.EncodeMethodCall(method, params...)
	if err != nil {
		return nil, &TransportError{Method: method, Op: OpEncode, Err: err}
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("xml-rpc request", logging.String("body", redactedRequest(method, body, params)))
	}

	payload := body
	if t.compress {
		if payload, err = gzipBytes(body); err != nil {
			return nil, &TransportError{Method: method, Op: OpEncode, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Method: method, Op: OpSend, Err: err}
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Content-Type", contentTypeXML)
	if t.compress {
		req.Header.Set("Content-Encoding", "gzip")
		req.Header.Set("Accept-Encoding", "gzip")
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Op: OpSend, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return nil, &TransportError{
			Method:     method,
			Op:         OpStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Op: OpRead, StatusCode: resp.StatusCode, Err: err}
	}

	answer := raw
	if isGzipEncoding(resp.Header.Get("Content-Encoding")) {
		decoded, gzErr := gunzipBytes(raw)
		switch {
		case gzErr == nil:
			answer = decoded
		case t.rawFallback:
			logging.WarnWithContext(logger, "gzip answer did not decompress; decoding raw body", "transport_raw_fallback",
				logging.Error(gzErr),
				logging.String(logging.FieldErrorHint, "the server or a proxy mislabelled the response encoding"),
				logging.String(logging.FieldImpact, "answer decoded without decompression"),
			)
		default:
			return nil, &TransportError{Method: method, Op: OpDecompress, StatusCode: resp.StatusCode, Err: gzErr}
		}
	}
	logger.Debug("xml-rpc response", logging.String("body", string(answer)))

	result, err := decodeResponse(method, answer)
	if err != nil {
		return nil, err
	}
	logger.Debug("xml-rpc call finished",
		logging.Duration("elapsed", time.Since(started)),
		logging.String("result", fmt.Sprintf("%v", result)))
	return result, nil
}

func decodeResponse(method string, answer []byte) (any, error) {
	response := xmlrpc.Response(answer)
	if err := response.Err(); err != nil {
		var fault xmlrpc.FaultError
		if errors.As(err, &fault) {
			return nil, &FaultError{Method: method, Code: fault.Code, Message: fault.String}
		}
		return nil, &TransportError{Method: method, Op: OpDecode, Err: err}
	}
	var result any
	if err := response.Unmarshal(&result); err != nil {
		return nil, &TransportError{Method: method, Op: OpDecode, Err: err}
	}
	return result, nil
}

// redactedRequest renders the request for debug logs with the LogIn password
// masked.
func redactedRequest(method string, body []byte, params []any) string {
	if method != methodLogIn || len(params) < 2 {
		return string(body)
	}
	masked := append([]any(nil), params...)
	masked[1] = redactedValue
	out, err := xmlrpc.EncodeMethodCall(method, masked...)
	if err != nil {
		return "<redacted>"
	}
	return string(out)
}
