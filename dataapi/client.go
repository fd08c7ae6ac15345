package dataapi

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dataapi/httpclient"
	"github.com/kbukum/dataapi/logger"
	"github.com/kbukum/dataapi/observability"
)

// Doer executes one HTTP request. *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// Option configures a Factory and every client it produces.
type Option func(*options)

type options struct {
	doer        Doer
	log         *logger.Logger
	tracer      trace.Tracer
	metrics     *observability.Metrics
	strictQuery bool
	resultCheck bool
}

// WithHTTPClient sets the transport. By default an *httpclient.Client is
// built from Config.Timeout and Config.TLS.
func WithHTTPClient(d Doer) Option {
	return func(o *options) { o.doer = d }
}

// WithLogger enables debug logging of dispatched requests.
// The default logger discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l.WithComponent("dataapi")
		}
	}
}

// WithTracerProvider sets the provider used for request spans.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(observability.TracerName)
		}
	}
}

// WithMetrics records a counter and a duration histogram per send.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStrictQuery makes a send fail with a missing "Query" parameter unless
// the query carries at least one field besides dataSource and database.
func WithStrictQuery() Option {
	return func(o *options) { o.strictQuery = true }
}

// WithResultCheck makes a send fail with *ResultShapeError when the response
// lacks the fields of the endpoint's result family.
func WithResultCheck() Option {
	return func(o *options) { o.resultCheck = true }
}

// Client issues requests against one gateway. Its endpoint and query are
// mutable; each send works on a snapshot taken when it is called.
//
// A Client is safe for concurrent use, but ordering between a mutation and
// a send running in another goroutine is up to the caller.
//
// The snapshot copies only the top-level query keys. Nested values such as
// a filter map passed to MergeQuery stay shared with the caller and must
// not be modified while a send is in flight.
type Client struct {
	mu       sync.RWMutex
	resolver *endpointResolver
	body     *requestBody
	format   Format
	opts     *options
}

func newClient(cfg *Config, opts *options) *Client {
	return &Client{
		resolver: newEndpointResolver(cfg.BaseURI),
		body:     newRequestBody(cfg.DataSource, cfg.Database, cfg.APIKey),
		format:   cfg.Format,
		opts:     opts,
	}
}

// SetEndpoint selects the operation for subsequent sends.
func (c *Client) SetEndpoint(e Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolver.endpoint = e
}

// Endpoint returns the current endpoint, empty when unset.
func (c *Client) Endpoint() Endpoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolver.endpoint
}

// URI returns the base URI joined with the current endpoint.
func (c *Client) URI() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolver.uri()
}

// MergeQuery shallow-merges q into the current query. Later keys win and
// repeated calls accumulate.
func (c *Client) MergeQuery(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body.merge(q)
}

// ReplaceQuery discards every operation field and then merges q.
func (c *Client) ReplaceQuery(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body.replace(q)
}

// ResetQuery restores the query to {dataSource, database}.
func (c *Client) ResetQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body.reset()
}

// Query returns a copy of the current query. It never contains the API key.
func (c *Client) Query() Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.body.get()
}

// Format returns the request body encoding.
func (c *Client) Format() Format {
	return c.format
}
