package classifier

// DamageClass separates appearance-only damage from anything touching
// frame, chassis or mechanical soundness.
type DamageClass string

const (
	ClassCosmetic   DamageClass = "cosmetic"
	ClassStructural DamageClass = "structural"
)

// Dictionary maps normalized damage phrases to their class. It is loaded
// once at startup and passed to Classify explicitly, so tests can supply
// their own dictionaries.
type Dictionary struct {
	entries []dictionaryEntry
}

type dictionaryEntry struct {
	phrase string
	class  DamageClass
}

// NewDictionary builds a dictionary from raw phrase lists. Phrases are
// normalized the same way listing text is, so matching stays consistent.
func NewDictionary(cosmetic, structural []string) Dictionary {
	d := Dictionary{entries: make([]dictionaryEntry, 0, len(cosmetic)+len(structural))}
	for _, p := range cosmetic {
		d.entries = append(d.entries, dictionaryEntry{phrase: normalizeText(p), class: ClassCosmetic})
	}
	for _, p := range structural {
		d.entries = append(d.entries, dictionaryEntry{phrase: normalizeText(p), class: ClassStructural})
	}
	return d
}

// DefaultDictionary carries the curated bilingual phrase lists. Deliberately
// absent are bare catch-alls like "schade" or "damage": a listing that only
// says "damage" gives no evidence the damage is cosmetic.
func DefaultDictionary() Dictionary {
	cosmetic := []string{
		// Dutch
		"cosmetische schade", "lichte schade", "lakschade", "lakbeschadiging",
		"oppervlakkige schade", "kleine schade", "kleine deuk", "deukjes",
		"deuken", "krassen", "krasjes", "hagelschade", "parkeerdeuk",
		"bumperdeuk",
		// English
		"cosmetic damage", "minor damage", "paint damage", "surface damage",
		"small damage", "minor dent", "dents", "dent", "scratches", "scratch",
	}
	structural := []string{
		// Dutch
		"motorschade", "motor defect", "versnellingsbak defect",
		"frame schade", "chassis schade", "waterschade", "brandschade",
		"niet rijdend", "total loss", "ongeluk",
		// English
		"engine damage", "gearbox damage", "frame damage", "chassis damage",
		"structural damage", "flood damage", "fire damage", "accident damage",
		"salvage", "crash", "airbag",
	}
	return NewDictionary(cosmetic, structural)
}
