package dataapi

// Endpoint selects the gateway operation. It is appended to the base URI.
type Endpoint string

// Supported endpoints.
const (
	EndpointFind       Endpoint = "/find"
	EndpointFindOne    Endpoint = "/findOne"
	EndpointInsertOne  Endpoint = "/insertOne"
	EndpointInsertMany Endpoint = "/insertMany"
	EndpointUpdateOne  Endpoint = "/updateOne"
	EndpointUpdateMany Endpoint = "/updateMany"
	EndpointDeleteOne  Endpoint = "/deleteOne"
	EndpointDeleteMany Endpoint = "/deleteMany"
)

var endpoints = []Endpoint{
	EndpointFind,
	EndpointFindOne,
	EndpointInsertOne,
	EndpointInsertMany,
	EndpointUpdateOne,
	EndpointUpdateMany,
	EndpointDeleteOne,
	EndpointDeleteMany,
}

// Endpoints returns the supported endpoints in a stable order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// Valid reports whether e is one of the supported endpoints.
// The client does not call it; setting any value is allowed.
func (e Endpoint) Valid() bool {
	for _, known := range endpoints {
		if e == known {
			return true
		}
	}
	return false
}

// Operation returns the endpoint without its leading slash, e.g. "find".
func (e Endpoint) Operation() string {
	if len(e) > 0 && e[0] == '/' {
		return string(e[1:])
	}
	return string(e)
}

func (e Endpoint) String() string { return string(e) }

// endpointResolver joins the fixed base URI with the current endpoint.
type endpointResolver struct {
	baseURI  string
	endpoint Endpoint
}

func newEndpointResolver(baseURI string) *endpointResolver {
	return &endpointResolver{baseURI: baseURI}
}

// uri is plain concatenation with no normalization or escaping.
func (r *endpointResolver) uri() string {
	return r.baseURI + string(r.endpoint)
}
