package repository

import (
	"context"
	"testing"
	"time"

	"github.com/annazecevic/comics-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create returns hex id", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := store.CreateDocument(context.Background(), domain.CollectionComics, &domain.Comic{
			ID:     "ignored",
			Title:  "Arcane Academy",
			Author: "M. Kato",
			Genre:  "Fantasy",
		})

		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})

	mt.Run("create propagates write errors", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := store.CreateDocument(context.Background(), domain.CollectionComics, bson.M{"title": "x"})
		assert.Error(mt, err)
	})

	mt.Run("get documents decodes batch", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		ns := mt.DB.Name() + "." + domain.CollectionComics
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "title", Value: "Arcane Academy"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Crimson Streets"}},
		))

		docs, err := store.GetDocuments(context.Background(), domain.CollectionComics, bson.M{"genre": "Fantasy"}, 2)

		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, oid, docs[0]["_id"])
		assert.Equal(mt, "Crimson Streets", docs[1]["title"])
	})

	mt.Run("get documents with no match is empty", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		ns := mt.DB.Name() + "." + domain.CollectionComics
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		docs, err := store.GetDocuments(context.Background(), domain.CollectionComics, nil, 10)

		require.NoError(mt, err)
		assert.NotNil(mt, docs)
		assert.Empty(mt, docs)
	})

	mt.Run("find document not found", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		ns := mt.DB.Name() + "." + domain.CollectionComics
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.FindDocument(context.Background(), domain.CollectionComics, bson.M{"_id": primitive.NewObjectID()})

		assert.ErrorIs(mt, err, ErrDocumentNotFound)
	})

	mt.Run("find document command error", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad query",
		}))

		_, err := store.FindDocument(context.Background(), domain.CollectionComics, bson.M{})

		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrDocumentNotFound)
	})

	mt.Run("count documents", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		ns := mt.DB.Name() + "." + domain.CollectionComics
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		n, err := store.CountDocuments(context.Background(), domain.CollectionComics, nil)

		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("list collection names", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, time.Second)
		ns := mt.DB.Name() + ".$cmd.listCollections"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "name", Value: "comic"}, {Key: "type", Value: "collection"}},
		))

		names, err := store.ListCollectionNames(context.Background())

		require.NoError(mt, err)
		assert.Equal(mt, []string{"comic"}, names)
		assert.True(mt, store.Available())
		assert.Equal(mt, mt.DB.Name(), store.Name())
	})
}

func TestUnavailableStore(t *testing.T) {
	store := Unavailable()
	ctx := context.Background()

	assert.False(t, store.Available())

	_, err := store.CreateDocument(ctx, domain.CollectionComics, bson.M{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.GetDocuments(ctx, domain.CollectionComics, nil, 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.FindDocument(ctx, domain.CollectionComics, nil)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.CountDocuments(ctx, domain.CollectionComics, nil)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.ListCollectionNames(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestConnectWithoutSettingsIsUnavailable(t *testing.T) {
	assert.False(t, Connect(context.Background(), "", "comics", time.Second).Available())
	assert.False(t, Connect(context.Background(), "mongodb://localhost:27017", "", time.Second).Available())
}

func TestToDocumentDropsLiteralID(t *testing.T) {
	doc, err := toDocument(&domain.Comic{ID: "demo-1", Title: "T", Author: "A", Genre: "G"})

	require.NoError(t, err)
	assert.NotContains(t, doc, "id")
	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "description")
	assert.Equal(t, "T", doc["title"])
}
