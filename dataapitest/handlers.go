package dataapitest

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleFind(c *gin.Context, req request) {
	filter := mapField(req.body, "filter")
	limit := -1
	if n, ok := req.body["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	s.mu.Lock()
	docs := []map[string]any{}
	for _, doc := range s.collections[req.collection] {
		if limit >= 0 && len(docs) == limit {
			break
		}
		if matches(doc, filter) {
			docs = append(docs, cloneDoc(doc))
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) handleFindOne(c *gin.Context, req request) {
	filter := mapField(req.body, "filter")

	s.mu.Lock()
	var found map[string]any
	for _, doc := range s.collections[req.collection] {
		if matches(doc, filter) {
			found = cloneDoc(doc)
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		c.JSON(http.StatusOK, gin.H{"document": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": found})
}

func (s *Server) handleInsertOne(c *gin.Context, req request) {
	doc := mapField(req.body, "document")
	if doc == nil {
		abort(c, http.StatusBadRequest, "InvalidParameter", "document is required")
		return
	}

	s.mu.Lock()
	id := s.insert(req.collection, doc)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"insertedId": id})
}

func (s *Server) handleInsertMany(c *gin.Context, req request) {
	raw, ok := req.body["documents"].([]any)
	if !ok {
		abort(c, http.StatusBadRequest, "InvalidParameter", "documents must be an array")
		return
	}
	docs := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		doc, ok := item.(map[string]any)
		if !ok {
			abort(c, http.StatusBadRequest, "InvalidParameter", "documents must contain objects")
			return
		}
		docs = append(docs, doc)
	}

	s.mu.Lock()
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, s.insert(req.collection, doc))
	}
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"insertedIds": ids})
}

// handleUpdate supports the $set and $unset operators.
func (s *Server) handleUpdate(many bool) func(*gin.Context, request) {
	return func(c *gin.Context, req request) {
		filter := mapField(req.body, "filter")
		update := mapField(req.body, "update")
		if update == nil {
			abort(c, http.StatusBadRequest, "InvalidParameter", "update is required")
			return
		}
		for op := range update {
			if op != "$set" && op != "$unset" {
				abort(c, http.StatusBadRequest, "InvalidParameter", "unsupported update operator "+op)
				return
			}
		}
		set := mapField(update, "$set")
		unset := mapField(update, "$unset")

		s.mu.Lock()
		matched, modified := 0, 0
		for _, doc := range s.collections[req.collection] {
			if !matches(doc, filter) {
				continue
			}
			matched++
			if apply(doc, set, unset) {
				modified++
			}
			if !many {
				break
			}
		}
		s.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"matchedCount": matched, "modifiedCount": modified})
	}
}

func (s *Server) handleDelete(many bool) func(*gin.Context, request) {
	return func(c *gin.Context, req request) {
		filter := mapField(req.body, "filter")

		s.mu.Lock()
		kept := s.collections[req.collection][:0]
		deleted := 0
		for _, doc := range s.collections[req.collection] {
			if matches(doc, filter) && (many || deleted == 0) {
				deleted++
				continue
			}
			kept = append(kept, doc)
		}
		s.collections[req.collection] = kept
		s.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
	}
}

// insert stores doc and returns its id. Callers hold s.mu.
func (s *Server) insert(collection string, doc map[string]any) string {
	doc = normalize(doc)
	id, ok := doc["_id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		doc["_id"] = id
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return id
}

// matches reports whether every filter field equals the document field.
func matches(doc, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func apply(doc, set, unset map[string]any) bool {
	changed := false
	for k, v := range set {
		if cur, ok := doc[k]; !ok || !reflect.DeepEqual(cur, v) {
			doc[k] = v
			changed = true
		}
	}
	for k := range unset {
		if _, ok := doc[k]; ok {
			delete(doc, k)
			changed = true
		}
	}
	return changed
}

func mapField(body map[string]any, key string) map[string]any {
	m, _ := body[key].(map[string]any)
	return m
}

// normalize round-trips v through JSON so numbers become float64 and nested
// values share the shapes of decoded request bodies.
func normalize(v map[string]any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return cloneDoc(v)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return cloneDoc(v)
	}
	return out
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
