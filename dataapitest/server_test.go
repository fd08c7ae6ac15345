package dataapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func post(t *testing.T, s *Server, path, apiKey, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.URL()+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", apiKey)

	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return resp.StatusCode, out
}

func TestServer_RejectsWrongAPIKey(t *testing.T) {
	s := NewServer("secret")
	defer s.Close()

	status, body := post(t, s, "/find", "wrong", `{"collection":"items"}`)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", status)
	}
	if body["error_code"] != "InvalidSession" {
		t.Errorf("expected InvalidSession, got %v", body["error_code"])
	}
}

func TestServer_RequiresCollection(t *testing.T) {
	s := NewServer("k")
	defer s.Close()

	status, body := post(t, s, "/find", "k", `{"dataSource":"C0"}`)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if body["error"] != "collection is required" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestServer_UnknownEndpoint(t *testing.T) {
	s := NewServer("k")
	defer s.Close()

	status, _ := post(t, s, "/aggregate", "k", `{"collection":"items"}`)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestServer_CRUD(t *testing.T) {
	s := NewServer("k")
	defer s.Close()

	status, body := post(t, s, "/insertOne", "k", `{"collection":"items","document":{"x":1}}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	id, _ := body["insertedId"].(string)
	if id == "" {
		t.Fatal("expected generated insertedId")
	}

	_, body = post(t, s, "/insertMany", "k", `{"collection":"items","documents":[{"x":2},{"x":2,"_id":"fixed"}]}`)
	ids, _ := body["insertedIds"].([]any)
	if len(ids) != 2 || ids[1] != "fixed" {
		t.Fatalf("unexpected insertedIds: %v", body["insertedIds"])
	}

	_, body = post(t, s, "/find", "k", `{"collection":"items","filter":{"x":2}}`)
	docs, _ := body["documents"].([]any)
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}

	_, body = post(t, s, "/findOne", "k", `{"collection":"items","filter":{"_id":"`+id+`"}}`)
	doc, _ := body["document"].(map[string]any)
	if doc == nil || doc["x"] != float64(1) {
		t.Errorf("unexpected document: %v", body["document"])
	}

	_, body = post(t, s, "/updateMany", "k", `{"collection":"items","filter":{"x":2},"update":{"$set":{"y":true}}}`)
	if body["matchedCount"] != float64(2) || body["modifiedCount"] != float64(2) {
		t.Errorf("unexpected update result: %v", body)
	}

	_, body = post(t, s, "/updateOne", "k", `{"collection":"items","filter":{"x":2},"update":{"$set":{"y":true}}}`)
	if body["matchedCount"] != float64(1) || body["modifiedCount"] != float64(0) {
		t.Errorf("unexpected update result: %v", body)
	}

	_, body = post(t, s, "/deleteOne", "k", `{"collection":"items","filter":{"x":2}}`)
	if body["deletedCount"] != float64(1) {
		t.Errorf("expected 1 deleted, got %v", body["deletedCount"])
	}

	_, body = post(t, s, "/deleteMany", "k", `{"collection":"items","filter":{}}`)
	if body["deletedCount"] != float64(2) {
		t.Errorf("expected 2 deleted, got %v", body["deletedCount"])
	}
	if n := len(s.Documents("items")); n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}
}

func TestServer_RecordsRequests(t *testing.T) {
	s := NewServer("k")
	defer s.Close()
	s.Seed("items", map[string]any{"_id": "a", "n": 1})

	post(t, s, "/findOne", "k", `{"dataSource":"C0","database":"db","collection":"items"}`)

	last, ok := s.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Path != "/findOne" || last.Method != http.MethodPost {
		t.Errorf("unexpected request line: %s %s", last.Method, last.Path)
	}
	if last.APIKey != "k" {
		t.Errorf("expected api key k, got %q", last.APIKey)
	}
	if last.Body["dataSource"] != "C0" {
		t.Errorf("expected dataSource C0, got %v", last.Body["dataSource"])
	}
	if len(s.Requests()) != 1 {
		t.Errorf("expected 1 request, got %d", len(s.Requests()))
	}
}

func TestServer_RespondWithAndReset(t *testing.T) {
	s := NewServer("k")
	defer s.Close()

	s.RespondWith(http.StatusInternalServerError, `{"error":"boom"}`)
	status, body := post(t, s, "/find", "k", `{"collection":"items"}`)
	if status != http.StatusInternalServerError || body["error"] != "boom" {
		t.Errorf("expected override, got %d %v", status, body)
	}

	s.Reset()
	status, _ = post(t, s, "/find", "k", `{"collection":"items"}`)
	if status != http.StatusOK {
		t.Errorf("expected 200 after reset, got %d", status)
	}
	if len(s.Requests()) != 1 {
		t.Errorf("expected reset to clear requests, got %d", len(s.Requests()))
	}
}
