package dto

import "github.com/annazecevic/comics-service/domain"

const (
	DefaultListLimit = 24
	MinListLimit     = 1
	MaxListLimit     = 100
)

// CreateComicRequest requires title, author and genre to be present. They are
// pointers so that an empty string still counts as present.
type CreateComicRequest struct {
	Title       *string  `json:"title" binding:"required"`
	Author      *string  `json:"author" binding:"required"`
	Genre       *string  `json:"genre" binding:"required"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"cover_url"`
	Rating      *float64 `json:"rating"`
	Tags        []string `json:"tags"`
}

// ToComic keeps every submitted field as-is; there are no business rules on writes.
func (r *CreateComicRequest) ToComic() *domain.Comic {
	return &domain.Comic{
		Title:       deref(r.Title),
		Author:      deref(r.Author),
		Genre:       deref(r.Genre),
		Description: r.Description,
		CoverURL:    r.CoverURL,
		Rating:      r.Rating,
		Tags:        r.Tags,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type CreateComicResponse struct {
	ID string `json:"id"`
}

type ListComicsQuery struct {
	Q     string
	Genre string
	Limit int
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
