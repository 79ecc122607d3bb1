package ingest

import (
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
)

// BuildMapping resolves source columns onto the canonical schema and returns
// a rename table source column -> canonical column.
//
// For each canonical field, in canonical order, the first of these wins:
// the configured source name present verbatim, a slug match between the
// configured (or canonical) name and the source columns, the canonical name
// present verbatim. Unmatched fields are left out; a source column claimed by
// an earlier field is not reused.
func BuildMapping(columns []string, mapping map[string]string) map[string]string {
	present := make(map[string]bool, len(columns))
	bySlug := make(map[string]string, len(columns))
	for _, col := range columns {
		present[col] = true
		slug := textnorm.Slug(col)
		if slug == "" {
			continue
		}
		if _, dup := bySlug[slug]; !dup {
			bySlug[slug] = col
		}
	}

	rename := make(map[string]string, len(event.Columns))
	for _, target := range event.Columns {
		configured := mapping[target]
		name := configured
		if textnorm.IsBlank(name) {
			name = target
		}

		var source string
		switch {
		case configured != "" && present[configured]:
			source = configured
		case bySlug[textnorm.Slug(name)] != "":
			source = bySlug[textnorm.Slug(name)]
		case present[target]:
			source = target
		default:
			continue
		}

		if _, claimed := rename[source]; claimed {
			continue
		}
		rename[source] = target
	}
	return rename
}
