package roli

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/roli/pkg/httpclient"
)

const (
	DefaultBaseURL   = "https://www.rolimons.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:101.0) Gecko/20100101 Firefox/101.0"
	DefaultTimeout   = 30 * time.Second

	verificationCookie = "_RoliVerification"
)

// Logger is the logging surface the client reports request metadata to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Client issues exactly one request per operation. It is immutable after New
// and safe for concurrent use.
type Client struct {
	http         httpclient.Client
	baseURL      string
	userAgent    string
	verification string
	timeout      time.Duration
	codes        CodeTable
	log          Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the resty-backed transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithTimeout sets the timeout of the default transport. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = strings.TrimSpace(ua) }
}

// WithVerification sets the _RoliVerification token required by CreateTradeAd.
func WithVerification(token string) Option {
	return func(cl *Client) { cl.verification = token }
}

// WithLogger sets where request metadata is logged at debug level.
func WithLogger(l Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// WithErrorCodes overrides the application-code vocabulary of one endpoint.
func WithErrorCodes(op Op, codes map[int]error) Option {
	return func(cl *Client) {
		cp := make(map[int]error, len(codes))
		for k, v := range codes {
			cp[k] = v
		}
		cl.codes[op] = cp
	}
}

// New builds a Client. Unset options fall back to the public Rolimons host,
// a desktop browser User-Agent and a resty transport with DefaultTimeout.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		codes:     DefaultCodeTable(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	if c.log == nil {
		c.log = noopLogger{}
	}
	return c
}

// With returns a copy of c with opts applied on top. The transport is shared.
func (c *Client) With(opts ...Option) *Client {
	cp := *c
	cp.codes = make(CodeTable, len(c.codes))
	for op, m := range c.codes {
		cp.codes[op] = m
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cp)
		}
	}
	if cp.userAgent == "" {
		cp.userAgent = c.userAgent
	}
	if cp.baseURL == "" {
		cp.baseURL = c.baseURL
	}
	if cp.log == nil {
		cp.log = noopLogger{}
	}
	return &cp
}

// HasVerification reports whether a token is set. It does not check validity.
func (c *Client) HasVerification() bool {
	return c.verification != ""
}

// do sends one request for ep and returns the body of a success-status response.
func (c *Client) do(ctx context.Context, ep endpoint, suffix string, query url.Values, headers map[string]string, body []byte) ([]byte, int, error) {
	target := c.baseURL + ep.path + suffix
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	hdrs := map[string]string{"User-Agent": c.userAgent}
	for k, v := range headers {
		hdrs[k] = v
	}

	start := time.Now()
	var (
		resp httpclient.Response
		err  error
	)
	if body != nil {
		resp, err = c.http.Post(ctx, target, hdrs, body)
	} else {
		resp, err = c.http.Get(ctx, target, hdrs)
	}
	if err != nil {
		c.log.WarnObj("roli request failed", "roli_request", map[string]any{
			"op":    string(ep.op),
			"error": err.Error(),
		})
		return nil, 0, networkError(ep.op, err)
	}

	status := resp.StatusCode()
	c.log.DebugObj("roli request completed", "roli_request", map[string]any{
		"op":         string(ep.op),
		"method":     ep.method,
		"status":     status,
		"bytes":      len(resp.Body()),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if !ep.isSuccess(status) {
		return nil, status, statusError(ep.op, status, ep.statuses[status])
	}
	return resp.Body(), status, nil
}
