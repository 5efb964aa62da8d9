package repository

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in memory, in insertion order. Data is lost on
// restart. It understands equality filters and $regex with $options, which is
// all the comic queries need. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	name        string
	collections map[string][]bson.M
}

func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:        name,
		collections: make(map[string][]bson.M),
	}
}

func (m *MemoryStore) Available() bool { return true }

func (m *MemoryStore) Name() string { return m.name }

func (m *MemoryStore) CreateDocument(_ context.Context, collection string, data interface{}) (string, error) {
	doc, err := toDocument(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now

	stored, err := copyDocument(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], stored)
	m.mu.Unlock()

	return stringifyID(stored["_id"]), nil
}

func (m *MemoryStore) GetDocuments(_ context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []bson.M{}
	for _, doc := range m.collections[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cp, err := copyDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) FindDocument(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	docs, err := m.GetDocuments(ctx, collection, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrDocumentNotFound
	}
	return docs[0], nil
}

func (m *MemoryStore) CountDocuments(_ context.Context, collection string, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.collections[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListCollectionNames(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// copyDocument round-trips through BSON so callers never share maps with the
// store and values take the same types the Mongo driver would decode.
func copyDocument(doc bson.M) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc, filter bson.M) (bool, error) {
	for field, cond := range filter {
		ok, err := matchField(doc[field], cond)
		if err != nil {
			return false, fmt.Errorf("filter on %q: %w", field, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchField(value, cond interface{}) (bool, error) {
	ops, isOps := cond.(bson.M)
	if !isOps {
		return reflect.DeepEqual(value, cond), nil
	}
	pattern, hasRegex := ops["$regex"]
	if !hasRegex {
		return false, fmt.Errorf("unsupported operator in %v", ops)
	}
	expr, _ := pattern.(string)
	if opts, _ := ops["$options"].(string); strings.Contains(opts, "i") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, err
	}
	s, ok := value.(string)
	return ok && re.MatchString(s), nil
}
