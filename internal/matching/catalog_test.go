package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"guard-matching/internal/models"
)

func TestCatalogScore(t *testing.T) {
	base := models.GuardProfile{
		Name:           "Maria Santos",
		Bio:            "Former diplomatic protection officer",
		Certifications: []string{"Firearms License", "First Aid"},
		Languages:      []string{"en", "pt"},
	}

	tests := []struct {
		name           string
		mutate         func(g *models.GuardProfile)
		query          string
		languages      []string
		certifications []string
		want           int
	}{
		{name: "nothing matches", want: 0},
		{name: "name match", query: "maria", want: 50},
		{name: "bio match", query: "diplomatic", want: 20},
		{name: "certification match counted once", query: "i", want: 50 + 20 + 30},
		{name: "blank query ignored", query: "   ", want: 0},
		{name: "top rating tier", mutate: func(g *models.GuardProfile) { g.Rating = 4.5 }, want: 30},
		{name: "middle rating tier", mutate: func(g *models.GuardProfile) { g.Rating = 4.2 }, want: 20},
		{name: "low rating tier", mutate: func(g *models.GuardProfile) { g.Rating = 3.5 }, want: 10},
		{name: "below rating tiers", mutate: func(g *models.GuardProfile) { g.Rating = 3.4 }, want: 0},
		{name: "veteran", mutate: func(g *models.GuardProfile) { g.CompletedJobs = 150 }, want: 20},
		{name: "experienced", mutate: func(g *models.GuardProfile) { g.CompletedJobs = 50 }, want: 15},
		{name: "established", mutate: func(g *models.GuardProfile) { g.CompletedJobs = 10 }, want: 10},
		{name: "per language", languages: []string{"en", "PT", "de"}, want: 30},
		{name: "per certification", certifications: []string{"firearms", "aid", "krav"}, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			if tt.mutate != nil {
				tt.mutate(&g)
			}
			assert.Equal(t, tt.want, CatalogScore(g, tt.query, tt.languages, tt.certifications))
		})
	}
}
