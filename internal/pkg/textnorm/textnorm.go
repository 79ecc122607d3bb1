// Package textnorm holds the string normalisation shared by column mapping,
// site matching and type/status cleanup.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// placeholders are values that mean "nothing here" in the source sheets.
var placeholders = map[string]bool{
	"sin tipo":    true,
	"sin subtipo": true,
}

// StripAccents removes combining marks ("Viña" -> "Vina", "Quilpué" -> "Quilpue").
func StripAccents(s string) string {
	// transformers keep state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug lowercases s, strips accents and collapses every run of
// non-alphanumeric characters into a single underscore.
//
//	Slug(" Viña del Mar ") == "vina_del_mar"
//	Slug("Fecha-Inicio")   == "fecha_inicio"
func Slug(s string) string {
	s = strings.ToLower(StripAccents(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Title upper-cases the first letter of every word and lower-cases the rest.
func Title(s string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(s))
}

// IsBlank reports whether s is empty after trimming.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsPlaceholder reports whether s is blank or one of the "sin tipo" style fillers.
func IsPlaceholder(s string) bool {
	if IsBlank(s) {
		return true
	}
	return placeholders[strings.ToLower(strings.TrimSpace(s))]
}

// TitleOrNil returns the title-cased value, or nil for blanks and placeholders.
func TitleOrNil(s string) *string {
	if IsPlaceholder(s) {
		return nil
	}
	v := Title(s)
	return &v
}
