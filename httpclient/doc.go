// Package httpclient provides the HTTP transport used by dataapi clients.
//
// A Client issues exactly one request per Do call. It applies default
// headers, authentication and TLS settings, and reports transport-level
// failures (connection, timeout, malformed request) as *Error. HTTP
// status codes are never turned into errors: callers receive every
// response that made it back over the wire and decide for themselves.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.APIKeyAuthHeader("my-key", "api-key"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    URL:    "https://gateway.example/action/find",
//	    Body:   map[string]any{"collection": "books"},
//	})
package httpclient
