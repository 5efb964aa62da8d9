// Package demo holds the sample comics served when no database is reachable
// and used to seed an empty collection.
package demo

import "github.com/annazecevic/comics-service/domain"

// Comics returns a new copy of the demo set on every call, in fixed order.
func Comics() []domain.Comic {
	return []domain.Comic{
		{
			ID:          "demo-1",
			Title:       "Nova City: Neon Nights",
			Author:      "A. Sterling",
			Genre:       "Sci-Fi",
			Description: str("A rogue courier races through a glowing mega-city to stop a sentient virus."),
			CoverURL:    str("https://images.unsplash.com/photo-1534088568595-a066f410bcda?q=80&w=1200&auto=format&fit=crop"),
			Rating:      num(4.8),
			Tags:        []string{"cyberpunk", "action", "future"},
		},
		{
			ID:          "demo-2",
			Title:       "Arcane Academy",
			Author:      "M. Kato",
			Genre:       "Fantasy",
			Description: str("A misfit mage uncovers a conspiracy at a floating academy of spells."),
			CoverURL:    str("https://images.unsplash.com/photo-1549880338-65ddcdfd017b?q=80&w=1200&auto=format&fit=crop"),
			Rating:      num(4.6),
			Tags:        []string{"magic", "school", "adventure"},
		},
		{
			ID:          "demo-3",
			Title:       "Starlight Rangers",
			Author:      "J. Vega",
			Genre:       "Adventure",
			Description: str("Five unlikely heroes chart the unknown between galaxies."),
			CoverURL:    str("https://images.unsplash.com/photo-1472214103451-9374bd1c798e?q=80&w=1200&auto=format&fit=crop"),
			Rating:      num(4.7),
			Tags:        []string{"space", "team", "epic"},
		},
		{
			ID:          "demo-4",
			Title:       "Crimson Streets",
			Author:      "L. Noir",
			Genre:       "Noir",
			Description: str("A masked detective hunts the truth in rain-soaked alleys."),
			CoverURL:    str("https://images.unsplash.com/photo-1501785888041-af3ef285b470?q=80&w=1200&auto=format&fit=crop"),
			Rating:      num(4.4),
			Tags:        []string{"mystery", "crime", "vigilante"},
		},
	}
}

// Find does a linear scan for a literal id match.
func Find(id string) (domain.Comic, bool) {
	for _, c := range Comics() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Comic{}, false
}

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }
