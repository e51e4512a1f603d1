package matching

import (
	"strings"

	"guard-matching/internal/models"
)

// CatalogScore is the keyword-search relevance used when browsing the guard
// catalog. It is independent of ScoreGuard and the two are not comparable.
func CatalogScore(guard models.GuardProfile, query string, languages, certifications []string) int {
	score := 0

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		if strings.Contains(strings.ToLower(guard.Name), q) {
			score += 50
		}
		if strings.Contains(strings.ToLower(guard.Bio), q) {
			score += 20
		}
		for _, c := range guard.Certifications {
			if strings.Contains(strings.ToLower(c), q) {
				score += 30
				break
			}
		}
	}

	switch {
	case guard.Rating >= 4.5:
		score += 30
	case guard.Rating >= 4.0:
		score += 20
	case guard.Rating >= 3.5:
		score += 10
	}

	switch {
	case guard.CompletedJobs >= 100:
		score += 20
	case guard.CompletedJobs >= 50:
		score += 15
	case guard.CompletedJobs >= 10:
		score += 10
	}

	for _, lang := range languages {
		if anyLanguage([]string{lang}, guard.Languages) {
			score += 15
		}
	}
	for _, cert := range certifications {
		if hasCertification(guard.Certifications, cert) {
			score += 10
		}
	}

	return score
}

func hasCertification(held []string, wanted string) bool {
	w := strings.ToLower(strings.TrimSpace(wanted))
	if w == "" {
		return false
	}
	for _, h := range held {
		if strings.Contains(strings.ToLower(h), w) {
			return true
		}
	}
	return false
}
