package repository

import (
	"fmt"
	"time"

	"github.com/annazecevic/comics-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeComic turns a raw comic document into a domain.Comic. The native
// _id becomes a plain string, BSON datetimes become time.Time, and fields the
// Comic shape does not know are dropped. created_at and updated_at are typed,
// so a stored value that is not a date is dropped rather than passed through.
func NormalizeComic(doc bson.M) domain.Comic {
	c := domain.Comic{
		ID:     stringifyID(doc["_id"]),
		Title:  stringField(doc, "title"),
		Author: stringField(doc, "author"),
		Genre:  stringField(doc, "genre"),
	}
	if v, ok := doc["description"].(string); ok {
		c.Description = &v
	}
	if v, ok := doc["cover_url"].(string); ok {
		c.CoverURL = &v
	}
	if v, ok := number(doc["rating"]); ok {
		c.Rating = &v
	}
	c.Tags = stringSlice(doc["tags"])
	c.CreatedAt = timestamp(doc["created_at"])
	c.UpdatedAt = timestamp(doc["updated_at"])
	return c
}

func stringifyID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case primitive.Decimal128:
		f, err := decimalToFloat(n)
		return f, err == nil
	default:
		return 0, false
	}
}

func decimalToFloat(d primitive.Decimal128) (float64, error) {
	var f float64
	_, err := fmt.Sscan(d.String(), &f)
	return f, err
}

func stringSlice(v interface{}) []string {
	var items []interface{}
	switch a := v.(type) {
	case primitive.A:
		items = a
	case []interface{}:
		items = a
	case []string:
		return append([]string(nil), a...)
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timestamp(v interface{}) *time.Time {
	var t time.Time
	switch ts := v.(type) {
	case primitive.DateTime:
		t = ts.Time().UTC()
	case time.Time:
		t = ts.UTC()
	case primitive.Timestamp:
		t = time.Unix(int64(ts.T), 0).UTC()
	default:
		return nil
	}
	return &t
}
