// Package dataapi is a typed client for a stateless document-database HTTP
// gateway in the style of the MongoDB Atlas Data API.
//
// A Factory holds the immutable connection Config and hands out independent
// clients. Each client carries a mutable endpoint and a query that is
// shallow-merged into the seeded {dataSource, database} body:
//
//	newClient, err := dataapi.CreateClient(dataapi.Config{
//		BaseURI:    "https://data.example.com/app/data-abc/endpoint/data/v1/action",
//		DataSource: "Cluster0",
//		Database:   "shop",
//		APIKey:     os.Getenv("DATAAPI_API_KEY"),
//	})
//
//	c := newClient()
//	c.SetEndpoint(dataapi.EndpointFind)
//	c.MergeQuery(dataapi.Query{"collection": "books", "filter": dataapi.Query{"year": 2020}})
//
//	res, err := dataapi.Send[dataapi.ReadMultipleDocuments[Book]](ctx, c)
//
// Every send issues exactly one POST. Precondition failures are reported as
// *MissingParameterError before any I/O; transport and decoding failures as
// *RequestError. Non-2xx responses whose body is valid JSON are decoded and
// returned like any other response; use Do to inspect the status code, or
// WithResultCheck to reject payloads of the wrong shape.
package dataapi
