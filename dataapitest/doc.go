// Package dataapitest provides an in-memory data gateway for tests.
//
// The server speaks the same wire contract as the real gateway: POST
// requests to the eight operation endpoints, an api-key header, and a JSON
// body carrying dataSource, database and collection. Collections live in
// memory keyed by collection name.
//
//	srv := dataapitest.NewServer("test-key")
//	defer srv.Close()
//
//	newClient, _ := dataapi.CreateClient(dataapi.Config{
//		BaseURI:    srv.URL(),
//		DataSource: "Cluster0",
//		Database:   "test",
//		APIKey:     "test-key",
//	})
package dataapitest
