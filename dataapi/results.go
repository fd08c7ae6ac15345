package dataapi

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the identity every stored document carries.
type Document struct {
	ID string `json:"_id"`
}

// ReadSingleDocument is the /findOne result. Document is nil when nothing
// matched.
type ReadSingleDocument[T any] struct {
	Document *T `json:"document"`
}

// ReadMultipleDocuments is the /find result.
type ReadMultipleDocuments[T any] struct {
	Documents []T `json:"documents"`
}

// InsertSingleDocument is the /insertOne result.
type InsertSingleDocument struct {
	InsertedID string `json:"insertedId"`
}

// InsertMultipleDocuments is the /insertMany result.
type InsertMultipleDocuments struct {
	InsertedIDs []string `json:"insertedIds"`
}

// UpdateOperation is the /updateOne and /updateMany result.
type UpdateOperation struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteOperation is the /deleteOne and /deleteMany result.
type DeleteOperation struct {
	DeletedCount int64 `json:"deletedCount"`
}

// resultFields lists the keys each endpoint's result must contain.
var resultFields = map[Endpoint][]string{
	EndpointFind:       {"documents"},
	EndpointFindOne:    {"document"},
	EndpointInsertOne:  {"insertedId"},
	EndpointInsertMany: {"insertedIds"},
	EndpointUpdateOne:  {"matchedCount", "modifiedCount"},
	EndpointUpdateMany: {"matchedCount", "modifiedCount"},
	EndpointDeleteOne:  {"deletedCount"},
	EndpointDeleteMany: {"deletedCount"},
}

// ResultFields returns the keys a successful result of e contains, or nil
// for an unknown endpoint.
func ResultFields(e Endpoint) []string {
	fields := resultFields[e]
	if fields == nil {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// ObjectID returns an Extended JSON ObjectId value for use in filters, e.g.
//
//	c.MergeQuery(dataapi.Query{"filter": dataapi.Query{"_id": id}})
//
// The value encodes as {"$oid": "..."} with FormatEJSON and as the plain hex
// string with FormatJSON.
func ObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("dataapi: invalid object id %q: %w", hex, err)
	}
	return id, nil
}
