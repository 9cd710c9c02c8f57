package store

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store. It is the test double for
// handler and service tests and the local-dev fallback when no Firestore
// project is configured. Semantics mirror FirestoreStore: Update merges and
// fails on missing documents, RunUpdate is atomic with respect to every
// other mutation.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]map[string]interface{})}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFields(doc), nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]interface{})
	}
	s.data[collection][id] = copyFields(fields)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(collection, id, fields)
}

func (s *MemoryStore) RunUpdate(ctx context.Context, collection, id string, fn func(map[string]interface{}) (map[string]interface{}, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	fields, err := fn(copyFields(doc))
	if err != nil {
		return err
	}
	return s.mergeLocked(collection, id, fields)
}

func (s *MemoryStore) List(ctx context.Context, collection, field, value string) ([]Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []Doc
	for id, doc := range s.data[collection] {
		if field == "" {
			docs = append(docs, Doc{ID: id, Data: copyFields(doc)})
			continue
		}
		if v, ok := doc[field].(string); ok && v == value {
			docs = append(docs, Doc{ID: id, Data: copyFields(doc)})
		}
	}
	return docs, nil
}

func (s *MemoryStore) Close() error { return nil }

// mergeLocked applies fields to an existing document. Caller holds mu.
func (s *MemoryStore) mergeLocked(collection, id string, fields map[string]interface{}) error {
	doc, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// copyFields keeps callers from mutating stored state through the returned
// map. Values are copied shallowly; stored values are treated as immutable.
func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
