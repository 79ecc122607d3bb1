package ingest

import (
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
)

// knownSites is the allow-list used when no equivalence matches.
var knownSites = map[string]string{
	"quilpue":       "Quilpué",
	"villa_alemana": "Villa Alemana",
	"vina_del_mar":  "Viña del Mar",
}

// SiteNormalizer maps site spellings to canonical site names.
type SiteNormalizer struct {
	equivalences map[string]string
}

// NewSiteNormalizer indexes the configured equivalences by alias slug.
func NewSiteNormalizer(equivalences map[string]string) *SiteNormalizer {
	bySlug := make(map[string]string, len(equivalences))
	for alias, canonical := range equivalences {
		bySlug[textnorm.Slug(alias)] = canonical
	}
	return &SiteNormalizer{equivalences: bySlug}
}

// Normalize returns nil for blank input. Otherwise a configured equivalence
// wins, then the allow-list, then the title-cased input.
func (n *SiteNormalizer) Normalize(raw string) *string {
	if textnorm.IsBlank(raw) {
		return nil
	}

	slug := textnorm.Slug(raw)
	if canonical, ok := n.equivalences[slug]; ok {
		return &canonical
	}
	if canonical, ok := knownSites[slug]; ok {
		return &canonical
	}
	title := textnorm.Title(raw)
	return &title
}

func NormalizeSite(raw string, equivalences map[string]string) *string {
	return NewSiteNormalizer(equivalences).Normalize(raw)
}
