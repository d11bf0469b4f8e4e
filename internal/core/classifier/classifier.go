package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is the damage severity derived from listing text.
type Category string

const (
	CategoryCosmetic   Category = "cosmetic"
	CategoryStructural Category = "structural"
	CategoryMixed      Category = "mixed"
	CategoryUnknown    Category = "unknown"
)

// Result is the outcome of classifying one listing's text.
type Result struct {
	Keywords     []string
	Category     Category
	CosmeticOnly bool
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText case-folds and strips diacritics so "Échte Schade" and
// "echte schade" match the same dictionary phrase.
func normalizeText(text string) string {
	lower := strings.ToLower(text)
	stripped, _, err := transform.String(diacriticStripper, lower)
	if err != nil {
		return lower
	}
	return stripped
}

// Classify matches the description and damage text against the dictionary
// and derives the severity category. It is pure: same input, same output,
// no I/O. A single structural match disqualifies cosmetic-only status, and
// no match at all is treated as unknown rather than safe.
func Classify(dict Dictionary, description, damageText string) Result {
	text := normalizeText(description + " " + damageText)

	var keywords []string
	var cosmeticHits, structuralHits int

	for _, entry := range dict.entries {
		if entry.phrase == "" || !strings.Contains(text, entry.phrase) {
			continue
		}
		keywords = append(keywords, entry.phrase)
		if entry.class == ClassStructural {
			structuralHits++
		} else {
			cosmeticHits++
		}
	}

	switch {
	case structuralHits > 0 && cosmeticHits > 0:
		return Result{Keywords: keywords, Category: CategoryMixed, CosmeticOnly: false}
	case structuralHits > 0:
		return Result{Keywords: keywords, Category: CategoryStructural, CosmeticOnly: false}
	case cosmeticHits > 0:
		return Result{Keywords: keywords, Category: CategoryCosmetic, CosmeticOnly: true}
	default:
		return Result{Category: CategoryUnknown, CosmeticOnly: false}
	}
}
