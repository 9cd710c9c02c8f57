package store

import (
	"context"
	"errors"
)

// Collection names used across the service.
const (
	Coaches       = "coaches"
	Clients       = "clients"
	Sessions      = "sessions"
	Notifications = "notifications"
	Plans         = "plans"
)

// ErrNotFound is returned by Get, Update and RunUpdate when no document
// exists for the given id. Callers translate it to their own error kinds.
var ErrNotFound = errors.New("document not found")

// Doc is a document plus its id, as returned by List.
type Doc struct {
	ID   string
	Data map[string]interface{}
}

// Store is the document-store boundary. Both implementations (Firestore and
// the in-memory fake) apply Update as a single atomic merge of the given
// fields, so multi-field writes are never partially visible.
type Store interface {
	// Get returns the document's fields, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)

	// Set creates the document or overwrites it wholesale.
	Set(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Update merges fields into an existing document in one write.
	// Fails with ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// RunUpdate runs fn against the current document inside a transaction
	// and merges the returned fields in the same transaction. fn returning
	// an error aborts with no write. Fails with ErrNotFound if the
	// document does not exist.
	RunUpdate(ctx context.Context, collection, id string, fn func(current map[string]interface{}) (map[string]interface{}, error)) error

	// List returns all documents in collection where field == value.
	// An empty field lists the entire collection.
	List(ctx context.Context, collection, field, value string) ([]Doc, error)

	Close() error
}
