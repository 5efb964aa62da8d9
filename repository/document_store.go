package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/annazecevic/comics-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemoryScheme selects the in-memory store instead of MongoDB.
const MemoryScheme = "memory://"

var (
	ErrStoreUnavailable = errors.New("database not available")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidID        = errors.New("invalid document id")
)

// DocumentStore is a thin, collection-generic view of the document database.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Available is false for the sentinel returned when no database could be reached.
	Available() bool
	Name() string

	CreateDocument(ctx context.Context, collection string, data interface{}) (string, error)
	GetDocuments(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error)
	FindDocument(ctx context.Context, collection string, filter bson.M) (bson.M, error)
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
	ListCollectionNames(ctx context.Context) ([]string, error)
}

type mongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoStore wraps an already connected database.
func NewMongoStore(db *mongo.Database, timeout time.Duration) DocumentStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &mongoStore{db: db, timeout: timeout}
}

// Connect dials uri and pings it. Missing settings or any failure yield the
// unavailable store instead of an error; the caller keeps serving demo data.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) DocumentStore {
	if uri == "" || dbName == "" {
		logger.Warn(logger.EventDBUnavailable, "Database settings missing, serving demo data", logger.Fields(
			"database_url_set", uri != "",
			"database_name_set", dbName != "",
		))
		return Unavailable()
	}

	if strings.HasPrefix(uri, MemoryScheme) {
		logger.Info(logger.EventDBConnection, "Using in-memory document store", logger.Fields("database", dbName))
		return NewMemoryStore(dbName)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error(logger.EventDBError, "Failed to connect to MongoDB", logger.Fields("error", err.Error()))
		return Unavailable()
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error(logger.EventDBError, "Failed to ping MongoDB", logger.Fields("error", err.Error()))
		_ = client.Disconnect(context.Background())
		return Unavailable()
	}

	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", logger.Fields("database", dbName))
	return NewMongoStore(client.Database(dbName), timeout)
}

func (s *mongoStore) Available() bool { return true }

func (s *mongoStore) Name() string { return s.db.Name() }

func (s *mongoStore) CreateDocument(ctx context.Context, collection string, data interface{}) (string, error) {
	doc, err := toDocument(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (s *mongoStore) GetDocuments(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return out, nil
}

func (s *mongoStore) FindDocument(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch from %s: %w", collection, err)
	}
	return doc, nil
}

func (s *mongoStore) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (s *mongoStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// IDFilter builds an _id filter from the hex form of an ObjectID.
func IDFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return bson.M{"_id": oid}, nil
}

func toDocument(data interface{}) (bson.M, error) {
	if m, ok := data.(bson.M); ok {
		out := make(bson.M, len(m)+2)
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
