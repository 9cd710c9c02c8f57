package store

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coachpilot/coachpilot-golang/internal/logger"
)

// FirestoreStore backs Store with a Cloud Firestore database.
type FirestoreStore struct {
	client *firestore.Client
	log    *logger.Logger
}

// NewFirestoreStore connects to Firestore for the given project and verifies
// the connection is usable before returning.
func NewFirestoreStore(ctx context.Context, projectID string, log *logger.Logger) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	log.Info("firestore connection established", "project", projectID)
	return &FirestoreStore{client: client, log: log.With("store", "firestore")}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	// Doc.Update applies all paths in one write and fails on a missing
	// document, which is exactly the merge semantics Store promises.
	updates := make([]firestore.Update, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) RunUpdate(ctx context.Context, collection, id string, fn func(map[string]interface{}) (map[string]interface{}, error)) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		fields, err := fn(snap.Data())
		if err != nil {
			return err
		}
		return tx.Set(ref, fields, firestore.MergeAll)
	})
	return err
}

func (s *FirestoreStore) List(ctx context.Context, collection, field, value string) ([]Doc, error) {
	col := s.client.Collection(collection)
	var q firestore.Query = col.Query
	if field != "" {
		q = col.Where(field, "==", value)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Doc
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Close() error { return s.client.Close() }

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
