package dataapi

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResultTypes_Decode(t *testing.T) {
	var one ReadSingleDocument[item]
	if err := json.Unmarshal([]byte(`{"document":{"_id":"a","x":2}}`), &one); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if one.Document == nil || one.Document.ID != "a" || one.Document.X != 2 {
		t.Errorf("unexpected document %+v", one.Document)
	}

	var none ReadSingleDocument[item]
	if err := json.Unmarshal([]byte(`{"document":null}`), &none); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if none.Document != nil {
		t.Errorf("expected nil document, got %+v", none.Document)
	}

	var upd UpdateOperation
	if err := json.Unmarshal([]byte(`{"matchedCount":3,"modifiedCount":1}`), &upd); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if upd.MatchedCount != 3 || upd.ModifiedCount != 1 {
		t.Errorf("unexpected update result %+v", upd)
	}

	var ids InsertMultipleDocuments
	if err := json.Unmarshal([]byte(`{"insertedIds":["a","b"]}`), &ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(ids.InsertedIDs, []string{"a", "b"}) {
		t.Errorf("unexpected ids %v", ids.InsertedIDs)
	}
}

func TestResultFields(t *testing.T) {
	if got := ResultFields(EndpointDeleteMany); !reflect.DeepEqual(got, []string{"deletedCount"}) {
		t.Errorf("unexpected fields %v", got)
	}
	if got := ResultFields("/aggregate"); got != nil {
		t.Errorf("expected nil for unknown endpoint, got %v", got)
	}
	for _, e := range Endpoints() {
		if len(ResultFields(e)) == 0 {
			t.Errorf("expected result fields for %s", e)
		}
	}
}

func TestObjectID(t *testing.T) {
	id, err := ObjectID("5f1a8f4e2d3c4b5a69788796")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Hex() != "5f1a8f4e2d3c4b5a69788796" {
		t.Errorf("unexpected hex %s", id.Hex())
	}

	if _, err := ObjectID("not-hex"); err == nil {
		t.Error("expected error for invalid hex")
	}
}
