package dataapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataapi/httpclient"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RecordedRequest is one request received by the server.
type RecordedRequest struct {
	Path        string
	Method      string
	APIKey      string
	ContentType string
	Accept      string
	Raw         []byte
	Body        map[string]any
}

type override struct {
	status int
	body   string
}

// Server is an httptest-backed fake gateway. It is safe for concurrent use.
type Server struct {
	apiKey string
	engine *gin.Engine
	ts     *httptest.Server

	mu          sync.Mutex
	collections map[string][]map[string]any
	requests    []RecordedRequest
	override    *override
}

// NewServer starts a fake gateway accepting apiKey.
func NewServer(apiKey string) *Server {
	s := &Server{
		apiKey:      apiKey,
		collections: make(map[string][]map[string]any),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.record(), s.authenticate(), s.overrideResponse())

	engine.POST("/find", s.withCollection(s.handleFind))
	engine.POST("/findOne", s.withCollection(s.handleFindOne))
	engine.POST("/insertOne", s.withCollection(s.handleInsertOne))
	engine.POST("/insertMany", s.withCollection(s.handleInsertMany))
	engine.POST("/updateOne", s.withCollection(s.handleUpdate(false)))
	engine.POST("/updateMany", s.withCollection(s.handleUpdate(true)))
	engine.POST("/deleteOne", s.withCollection(s.handleDelete(false)))
	engine.POST("/deleteMany", s.withCollection(s.handleDelete(true)))

	engine.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "NotFound", "no matching endpoint for "+c.Request.URL.Path)
	})

	s.engine = engine
	s.ts = httptest.NewServer(engine)
	return s
}

// URL returns the base URI, e.g. "http://127.0.0.1:PORT".
func (s *Server) URL() string { return s.ts.URL }

// Client returns an *http.Client wired to the server.
func (s *Server) Client() *http.Client { return s.ts.Client() }

// Doer returns a transport bound to the server's own *http.Client, for use
// with dataapi.WithHTTPClient.
func (s *Server) Doer() *httpclient.Client {
	return httpclient.NewFromHTTPClient(s.ts.Client(), httpclient.Config{})
}

// Close shuts the server down.
func (s *Server) Close() { s.ts.Close() }

// Requests returns every request received so far, in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Seed appends documents to a collection. Documents are normalized through
// JSON so they compare like documents received over the wire.
func (s *Server) Seed(collection string, docs ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.collections[collection] = append(s.collections[collection], normalize(doc))
	}
}

// Documents returns a copy of the documents stored in a collection.
func (s *Server) Documents(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	out := make([]map[string]any, len(docs))
	for i, doc := range docs {
		out[i] = cloneDoc(doc)
	}
	return out
}

// RespondWith makes every later authenticated request answer with status
// and the raw body, bypassing the operation handlers.
func (s *Server) RespondWith(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = &override{status: status, body: body}
}

// Reset clears stored documents, recorded requests and any RespondWith.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string][]map[string]any)
	s.requests = nil
	s.override = nil
}

const bodyKey = "dataapitest.body"

// record stores the request and parses its JSON body.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)

		rec := RecordedRequest{
			Path:        c.Request.URL.Path,
			Method:      c.Request.Method,
			APIKey:      c.GetHeader("api-key"),
			ContentType: c.GetHeader("Content-Type"),
			Accept:      c.GetHeader("Accept"),
			Raw:         raw,
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err == nil {
			rec.Body = body
			c.Set(bodyKey, body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		c.Next()
	}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("api-key") != s.apiKey {
			abort(c, http.StatusUnauthorized, "InvalidSession", "invalid session: api key is not valid")
			return
		}
		c.Next()
	}
}

func (s *Server) overrideResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		o := s.override
		s.mu.Unlock()
		if o == nil {
			c.Next()
			return
		}
		c.Data(o.status, "application/json", []byte(o.body))
		c.Abort()
	}
}

// request is the decoded body handed to operation handlers.
type request struct {
	collection string
	body       map[string]any
}

func (s *Server) withCollection(h func(*gin.Context, request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(bodyKey)
		if !ok {
			abort(c, http.StatusBadRequest, "InvalidParameter", "request body must be a JSON object")
			return
		}
		body := v.(map[string]any)
		collection, _ := body["collection"].(string)
		if collection == "" {
			abort(c, http.StatusBadRequest, "InvalidParameter", "collection is required")
			return
		}
		h(c, request{collection: collection, body: body})
	}
}

// abort writes a gateway-style error payload.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"error_code": code,
	})
}
