package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/annazecevic/comics-service/demo"
	"github.com/annazecevic/comics-service/domain"
	"github.com/annazecevic/comics-service/dto"
	"github.com/annazecevic/comics-service/logger"
	"github.com/annazecevic/comics-service/repository"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrComicNotFound    = errors.New("comic not found")
	ErrInvalidComicID   = errors.New("invalid comic id")
	ErrStoreUnavailable = repository.ErrStoreUnavailable
)

const diagnosticsCollectionLimit = 10

type ComicService interface {
	ListComics(ctx context.Context, q dto.ListComicsQuery) ([]domain.Comic, error)
	CreateComic(ctx context.Context, c *domain.Comic) (string, error)
	GetComic(ctx context.Context, id string) (*domain.Comic, error)
	// SeedIfEmpty inserts the demo comics when the collection is empty and
	// returns how many were written.
	SeedIfEmpty(ctx context.Context) (int, error)
	Diagnostics(ctx context.Context, env EnvPresence) dto.DiagnosticsResponse
}

// EnvPresence reports which database settings were present in the environment.
type EnvPresence struct {
	DatabaseURL  bool
	DatabaseName bool
}

type comicService struct {
	store repository.DocumentStore
}

func NewComicService(store repository.DocumentStore) ComicService {
	if store == nil {
		store = repository.Unavailable()
	}
	return &comicService{store: store}
}

func (s *comicService) ListComics(ctx context.Context, q dto.ListComicsQuery) ([]domain.Comic, error) {
	if !s.store.Available() {
		logger.Info(logger.EventDemoFallback, "Database unavailable, serving demo comics", logger.Fields("limit", q.Limit))
		comics := demo.Comics()
		if q.Limit < len(comics) {
			comics = comics[:q.Limit]
		}
		return comics, nil
	}

	// Two requests can both see an empty collection and both seed; duplicate
	// demo rows are tolerated.
	if _, err := s.SeedIfEmpty(ctx); err != nil {
		logger.Warn(logger.EventSeed, "Seeding demo comics failed, continuing", logger.Fields("error", err.Error()))
	}

	docs, err := s.store.GetDocuments(ctx, domain.CollectionComics, comicFilter(q), int64(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list comics: %w", err)
	}

	out := make([]domain.Comic, 0, len(docs))
	for _, d := range docs {
		out = append(out, repository.NormalizeComic(d))
	}
	return out, nil
}

func (s *comicService) CreateComic(ctx context.Context, c *domain.Comic) (string, error) {
	if !s.store.Available() {
		return "", ErrStoreUnavailable
	}
	id, err := s.store.CreateDocument(ctx, domain.CollectionComics, c)
	if err != nil {
		return "", err
	}
	logger.Info(logger.EventComicCreated, "Comic created", logger.Fields(
		"comic_id", id,
		"genre", c.Genre,
	))
	return id, nil
}

func (s *comicService) GetComic(ctx context.Context, id string) (*domain.Comic, error) {
	if !s.store.Available() {
		logger.Info(logger.EventDemoFallback, "Database unavailable, looking up demo comic", logger.Fields("comic_id", id))
		c, ok := demo.Find(id)
		if !ok {
			return nil, ErrComicNotFound
		}
		return &c, nil
	}

	filter, err := repository.IDFilter(id)
	if err != nil {
		return nil, ErrInvalidComicID
	}

	doc, err := s.store.FindDocument(ctx, domain.CollectionComics, filter)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, ErrComicNotFound
		}
		return nil, err
	}
	c := repository.NormalizeComic(doc)
	return &c, nil
}

func (s *comicService) SeedIfEmpty(ctx context.Context) (int, error) {
	if !s.store.Available() {
		return 0, ErrStoreUnavailable
	}
	n, err := s.store.CountDocuments(ctx, domain.CollectionComics, nil)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	seeded := 0
	for _, c := range demo.Comics() {
		c := c
		if _, err := s.store.CreateDocument(ctx, domain.CollectionComics, &c); err != nil {
			return seeded, err
		}
		seeded++
	}
	logger.Info(logger.EventSeed, "Seeded demo comics", logger.Fields("count", seeded))
	return seeded, nil
}

func (s *comicService) Diagnostics(ctx context.Context, env EnvPresence) dto.DiagnosticsResponse {
	resp := dto.DiagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.store.Available() {
		resp.Database = "✅ Available"
		resp.ConnectionStatus = "Connected"
		names, err := s.store.ListCollectionNames(ctx)
		if err != nil {
			resp.Database = "⚠️  Connected but Error: " + truncate(logger.MaskCredentials(err.Error()), 50)
		} else {
			if len(names) > diagnosticsCollectionLimit {
				names = names[:diagnosticsCollectionLimit]
			}
			resp.Collections = names
			resp.Database = "✅ Connected & Working"
		}
	} else {
		resp.Database = "⚠️  Available but not initialized"
	}

	resp.DatabaseURL = presence(env.DatabaseURL)
	resp.DatabaseName = presence(env.DatabaseName)
	return resp
}

// comicFilter matches title as a case-insensitive substring and genre exactly.
func comicFilter(q dto.ListComicsQuery) bson.M {
	filter := bson.M{}
	if q.Q != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Q), "$options": "i"}
	}
	if q.Genre != "" {
		filter["genre"] = q.Genre
	}
	return filter
}

func presence(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
