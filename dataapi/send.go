package dataapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dataapi/httpclient"
	"github.com/kbukum/dataapi/logger"
	"github.com/kbukum/dataapi/observability"
)

// errEmptyResponse is reported when a Doer returns neither a response nor
// an error.
var errEmptyResponse = errors.New("empty response")

// Response is a decoded gateway response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// IsSuccess reports whether the gateway answered with a 2xx status.
func (r *Response[T]) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Send issues one request and decodes the JSON response into T. The type
// parameter is trusted; nothing checks that the payload matches it unless
// the client was built WithResultCheck.
func Send[T any](ctx context.Context, c *Client) (T, error) {
	resp, err := Do[T](ctx, c)
	if resp == nil {
		var zero T
		return zero, err
	}
	return resp.Data, err
}

// Do is Send with the status code and headers kept. On *ResultShapeError
// the decoded response is returned along with the error.
func Do[T any](ctx context.Context, c *Client) (*Response[T], error) {
	var data T
	raw, err := c.send(ctx, &data)
	if raw == nil {
		return nil, err
	}
	return &Response[T]{
		StatusCode: raw.StatusCode,
		Headers:    raw.Headers,
		Data:       data,
	}, err
}

// Send issues one request and decodes the JSON response into out, which
// must be a pointer. A nil out discards the payload after checking that it
// is valid JSON.
func (c *Client) Send(ctx context.Context, out any) error {
	_, err := c.send(ctx, out)
	return err
}

// snapshot is the request state captured when a send starts.
type snapshot struct {
	endpoint Endpoint
	uri      string
	query    Query
	req      httpclient.Request
}

func (c *Client) snapshot() (*snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.resolver.endpoint == "" {
		return nil, &MissingParameterError{Parameter: ParamEndpoint}
	}
	if len(c.body.body) == 0 {
		return nil, &MissingParameterError{Parameter: ParamQuery}
	}
	if c.opts.strictQuery && !c.body.body.hasOperationFields() {
		return nil, &MissingParameterError{Parameter: ParamQuery}
	}

	snap := &snapshot{
		endpoint: c.resolver.endpoint,
		uri:      c.resolver.uri(),
		query:    c.body.get(),
	}
	req, err := c.body.requestInit(snap.uri, c.format)
	if err != nil {
		return nil, &RequestError{
			URI:     snap.uri,
			Query:   snap.query,
			Message: err.Error(),
			Err:     &httpclient.Error{Code: httpclient.ErrCodeValidation, Message: err.Error(), Err: err},
		}
	}
	snap.req = req
	return snap, nil
}

// send performs the request. The raw response is returned whenever one was
// received and decoded, even alongside a *ResultShapeError.
func (c *Client) send(ctx context.Context, out any) (*httpclient.Response, error) {
	start := time.Now()

	snap, err := c.snapshot()
	if err != nil {
		outcome := observability.OutcomeMissingParameter
		if IsRequestError(err) {
			outcome = observability.OutcomeEncodeError
		}
		c.opts.metrics.RecordRequest(ctx, c.Endpoint().Operation(), outcome, time.Since(start))
		return nil, err
	}

	ctx, span := c.tracer().Start(ctx, observability.SpanDataAPIRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrDBSystem, "mongodb"),
			attribute.String(observability.AttrDBName, snap.query.stringField(KeyDatabase)),
			attribute.String(observability.AttrDataSource, snap.query.stringField(KeyDataSource)),
			attribute.String(observability.AttrDBOperation, snap.endpoint.Operation()),
			attribute.String(observability.AttrDBCollection, snap.query.Collection()),
		),
	)
	defer span.End()

	fields := logger.Fields(
		logger.FieldEndpoint, snap.endpoint.String(),
		logger.FieldURI, snap.uri,
		logger.FieldCollection, snap.query.Collection(),
	)
	c.opts.log.Debug("dispatching request", fields)

	resp, err := c.opts.doer.Do(ctx, snap.req)
	if err == nil && resp == nil {
		err = errEmptyResponse
	}
	if err != nil {
		reqErr := &RequestError{URI: snap.uri, Query: snap.query, Message: err.Error(), Err: err}
		c.finish(ctx, span, snap, observability.OutcomeTransportError, start, 0, reqErr)
		return nil, reqErr
	}
	span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, resp.StatusCode))
	if !resp.IsSuccess() {
		c.opts.log.Debug("gateway returned a non-2xx status", logger.Fields(
			logger.FieldEndpoint, snap.endpoint.String(),
			logger.FieldStatus, resp.StatusCode,
		))
	}

	if err := decode(resp.Body, out); err != nil {
		reqErr := &RequestError{
			URI:     snap.uri,
			Query:   snap.query,
			Message: fmt.Sprintf("invalid response body (status %d): %v", resp.StatusCode, err),
			Err:     err,
		}
		c.finish(ctx, span, snap, observability.OutcomeDecodeError, start, resp.StatusCode, reqErr)
		return nil, reqErr
	}

	if c.opts.resultCheck {
		if shapeErr := checkShape(snap, resp); shapeErr != nil {
			c.finish(ctx, span, snap, observability.OutcomeUnexpectedShape, start, resp.StatusCode, shapeErr)
			return resp, shapeErr
		}
	}

	c.finish(ctx, span, snap, observability.OutcomeOK, start, resp.StatusCode, nil)
	return resp, nil
}

// finish records the outcome of a dispatched request. Failures are logged
// at debug level only; reporting them is the caller's job.
func (c *Client) finish(ctx context.Context, span trace.Span, snap *snapshot, outcome string, start time.Time, status int, err error) {
	elapsed := time.Since(start)
	c.opts.metrics.RecordRequest(ctx, snap.endpoint.Operation(), outcome, elapsed)

	fields := logger.Fields(logger.FieldEndpoint, snap.endpoint.String())
	if err != nil {
		observability.SetSpanError(span, err)
		fields = logger.ErrorFields(snap.endpoint.Operation(), err)
		fields[logger.FieldEndpoint] = snap.endpoint.String()
	}
	fields[logger.FieldStatus] = status
	fields["outcome"] = outcome
	c.opts.log.Debug("request completed", logger.MergeWithDuration(fields, elapsed))
}

func (c *Client) tracer() trace.Tracer {
	if c.opts.tracer != nil {
		return c.opts.tracer
	}
	return observability.Tracer(observability.TracerName)
}

func decode(body []byte, out any) error {
	if out == nil {
		var discard json.RawMessage
		return json.Unmarshal(body, &discard)
	}
	return json.Unmarshal(body, out)
}

// checkShape verifies the response object carries the endpoint's result keys.
func checkShape(snap *snapshot, resp *httpclient.Response) *ResultShapeError {
	want := resultFields[snap.endpoint]
	if len(want) == 0 {
		return nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		payload = nil
	}

	var missing []string
	for _, key := range want {
		if _, ok := payload[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ResultShapeError{
		Endpoint:   snap.endpoint,
		URI:        snap.uri,
		StatusCode: resp.StatusCode,
		Missing:    missing,
	}
}
