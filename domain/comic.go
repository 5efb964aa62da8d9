package domain

import "time"

// CollectionComics is the document collection every comic lives in.
const CollectionComics = "comic"

// Comic is the single resource served by the API. ID is the hex form of the
// store's ObjectID for persisted comics and a fixed literal for demo comics.
type Comic struct {
	ID          string     `bson:"-" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Author      string     `bson:"author" json:"author"`
	Genre       string     `bson:"genre" json:"genre"`
	Description *string    `bson:"description,omitempty" json:"description"`
	CoverURL    *string    `bson:"cover_url,omitempty" json:"cover_url"`
	Rating      *float64   `bson:"rating,omitempty" json:"rating"`
	Tags        []string   `bson:"tags,omitempty" json:"tags"`
	CreatedAt   *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
