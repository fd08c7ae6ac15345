package dataapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kbukum/dataapi/httpclient"
	"github.com/kbukum/dataapi/version"
)

// Body keys seeded into every query.
const (
	KeyDataSource = "dataSource"
	KeyDatabase   = "database"
)

const apiKeyHeader = "api-key"

// Query is the request payload: filter, document(s), update, sort, limit
// and so on. Values are passed through opaquely.
type Query map[string]any

// Clone returns a shallow copy of q.
func (q Query) Clone() Query {
	if q == nil {
		return nil
	}
	out := make(Query, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Collection returns the "collection" field when it is a string.
func (q Query) Collection() string {
	s, _ := q["collection"].(string)
	return s
}

// hasOperationFields reports whether q carries anything beyond the seeded keys.
func (q Query) hasOperationFields() bool {
	for k := range q {
		if k != KeyDataSource && k != KeyDatabase {
			return true
		}
	}
	return false
}

// requestBody holds the connection parameters and the accumulated query.
type requestBody struct {
	dataSource string
	database   string
	apiKey     string
	body       Query
}

func newRequestBody(dataSource, database, apiKey string) *requestBody {
	b := &requestBody{dataSource: dataSource, database: database, apiKey: apiKey}
	b.reset()
	return b
}

// get returns a copy of the current body.
func (b *requestBody) get() Query {
	return b.body.Clone()
}

// merge applies q on top of the current body, right-hand wins.
func (b *requestBody) merge(q Query) {
	for k, v := range q {
		b.body[k] = v
	}
}

// reset drops every operation field, leaving the seeded keys.
func (b *requestBody) reset() {
	b.body = Query{
		KeyDataSource: b.dataSource,
		KeyDatabase:   b.database,
	}
}

// replace is reset followed by merge.
func (b *requestBody) replace(q Query) {
	b.reset()
	b.merge(q)
}

// requestInit builds the POST request for uri from the current body.
func (b *requestBody) requestInit(uri string, format Format) (httpclient.Request, error) {
	payload, err := encodeQuery(b.body, format)
	if err != nil {
		return httpclient.Request{}, err
	}

	headers := map[string]string{
		"Content-Type": format.ContentType(),
		"User-Agent":   version.UserAgent(),
	}
	if format == FormatEJSON {
		headers["Accept"] = "application/json"
	}

	return httpclient.Request{
		Method:  http.MethodPost,
		URL:     uri,
		Headers: headers,
		Body:    payload,
		Auth:    httpclient.APIKeyAuthHeader(b.apiKey, apiKeyHeader),
	}, nil
}

func encodeQuery(q Query, format Format) ([]byte, error) {
	switch format {
	case FormatEJSON:
		data, err := bson.MarshalExtJSON(map[string]any(q), false, false)
		if err != nil {
			return nil, fmt.Errorf("encode ejson body: %w", err)
		}
		return data, nil
	default:
		data, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		return data, nil
	}
}

func (q Query) stringField(key string) string {
	s, _ := q[key].(string)
	return s
}
