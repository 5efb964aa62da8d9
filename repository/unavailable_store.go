package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type unavailableStore struct{}

// Unavailable returns the sentinel store. Every operation fails with ErrStoreUnavailable.
func Unavailable() DocumentStore { return unavailableStore{} }

func (unavailableStore) Available() bool { return false }

func (unavailableStore) Name() string { return "" }

func (unavailableStore) CreateDocument(context.Context, string, interface{}) (string, error) {
	return "", ErrStoreUnavailable
}

func (unavailableStore) GetDocuments(context.Context, string, bson.M, int64) ([]bson.M, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableStore) FindDocument(context.Context, string, bson.M) (bson.M, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableStore) CountDocuments(context.Context, string, bson.M) (int64, error) {
	return 0, ErrStoreUnavailable
}

func (unavailableStore) ListCollectionNames(context.Context) ([]string, error) {
	return nil, ErrStoreUnavailable
}
