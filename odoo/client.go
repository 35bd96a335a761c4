// Package odoo is a JSON-RPC client for the Odoo external API. It opens a
// single authenticated session per client and exposes a generic Execute
// call plus convenience wrappers for the common CRUD methods.
package odoo

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client holds the connection parameters and session state for one Odoo
// database. A Client is only returned by New after a successful login;
// there is no half-authenticated state.
type Client struct {
	baseURL  string
	endpoint string
	db       string
	username string
	apiKey   string
	uid      int64

	timeout            time.Duration
	insecureSkipVerify bool
	httpClient         *http.Client
	logger             *zap.Logger
}

// Option configures a Client before it connects.
type Option func(*Client)

// WithTimeout bounds every RPC round trip. The default is 30 seconds.
// There is no retry; a call that exceeds the timeout simply fails.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate and hostname
// verification. Verification is on by default; only enable this against
// development servers with self-signed certificates.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.insecureSkipVerify = skip
	}
}

// WithHTTPClient supplies a custom *http.Client. Timeout and TLS options
// still apply when the client uses a standard transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger supplies a zap logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client and authenticates it against the server in one step.
// Any transport failure, non-2xx status, malformed payload or server-side
// rejection makes construction fail.
func New(ctx context.Context, rawURL, db, username, apiKey string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("odoo: invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("odoo: invalid URL scheme %q, must be http or https", parsed.Scheme)
	}

	base := strings.TrimRight(rawURL, "/")
	c := &Client{
		baseURL:  base,
		endpoint: base + "/jsonrpc",
		db:       db,
		username: username,
		apiKey:   apiKey,
		timeout:  defaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.Timeout = c.timeout

	if c.insecureSkipVerify {
		c.logger.Warn("TLS certificate verification is disabled for the ERP connection; do not use in production",
			zap.String("url", c.baseURL),
		)
		if tr, ok := c.httpClient.Transport.(*http.Transport); ok {
			tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		} else if c.httpClient.Transport == nil {
			c.httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		} else {
			c.logger.Warn("cannot disable TLS verification on a non-standard transport",
				zap.String("transport_type", fmt.Sprintf("%T", c.httpClient.Transport)),
			)
		}
	}

	if err := c.login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// login performs the common/login call and records the session uid.
func (c *Client) login(ctx context.Context) error {
	result, err := c.call(ctx, "common", "login", []interface{}{c.db, c.username, c.apiKey})
	if err != nil {
		c.logger.Error("authentication failed",
			zap.Error(err),
			zap.String("db", c.db),
			zap.String("username", c.username),
			zap.String("op", "login"),
		)
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	// The server answers false (not an error object) on bad credentials.
	uid, ok := result.(float64)
	if !ok || int64(uid) == 0 {
		c.logger.Error("authentication rejected by server",
			zap.String("db", c.db),
			zap.String("username", c.username),
			zap.String("op", "login"),
		)
		return fmt.Errorf("%w: server rejected credentials", ErrAuthenticationFailed)
	}

	c.uid = int64(uid)
	c.logger.Info("authenticated with ERP",
		zap.Int64("uid", c.uid),
		zap.String("db", c.db),
		zap.String("op", "login"),
	)
	return nil
}

// IsConnected reports whether the session holds a valid user id.
func (c *Client) IsConnected() bool {
	return c.uid != 0
}

// UID returns the authenticated user id.
func (c *Client) UID() int64 {
	return c.uid
}

// Execute issues one generic object/execute call against a model method,
// prefixing the session credentials to the caller's positional arguments.
// The decoded result field is returned verbatim.
func (c *Client) Execute(ctx context.Context, model Model, method string, args ...interface{}) (interface{}, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}
	callArgs := append([]interface{}{c.db, c.uid, c.apiKey, string(model), method}, args...)
	result, err := c.call(ctx, "object", "execute", callArgs)
	if err != nil {
		c.logger.Error("execute call failed",
			zap.Error(err),
			zap.String("model", string(model)),
			zap.String("method", method),
			zap.String("op", "Execute"),
		)
		return nil, err
	}
	return result, nil
}
