package sites

import "strings"

// carMakes maps lowercased make names as they appear in listing titles to
// their canonical spelling. Multi-word makes come first during matching.
var carMakes = map[string]string{
	"alfa romeo":    "Alfa Romeo",
	"aston martin":  "Aston Martin",
	"land rover":    "Land Rover",
	"mercedes-benz": "Mercedes-Benz",
	"mercedes benz": "Mercedes-Benz",
	"mercedes":      "Mercedes-Benz",
	"mini cooper":   "Mini",
	"audi":          "Audi",
	"bmw":           "BMW",
	"chevrolet":     "Chevrolet",
	"citroen":       "Citroën",
	"citroën":       "Citroën",
	"dacia":         "Dacia",
	"fiat":          "Fiat",
	"ford":          "Ford",
	"honda":         "Honda",
	"hyundai":       "Hyundai",
	"jaguar":        "Jaguar",
	"jeep":          "Jeep",
	"kia":           "Kia",
	"lexus":         "Lexus",
	"mazda":         "Mazda",
	"mini":          "Mini",
	"mitsubishi":    "Mitsubishi",
	"nissan":        "Nissan",
	"opel":          "Opel",
	"peugeot":       "Peugeot",
	"porsche":       "Porsche",
	"renault":       "Renault",
	"saab":          "Saab",
	"seat":          "Seat",
	"skoda":         "Skoda",
	"smart":         "Smart",
	"subaru":        "Subaru",
	"suzuki":        "Suzuki",
	"tesla":         "Tesla",
	"toyota":        "Toyota",
	"volkswagen":    "Volkswagen",
	"vw":            "Volkswagen",
	"volvo":         "Volvo",
}

// multiWordMakes are checked before single-word makes so that
// "Alfa Romeo 147" never resolves to a bogus single-token make.
var multiWordMakes = []string{
	"alfa romeo", "aston martin", "land rover",
	"mercedes-benz", "mercedes benz", "mini cooper",
}

// ExtractMakeModel pulls the car make and the model fragment that follows
// it out of a listing title. Returns empty strings when no known make is
// present.
func ExtractMakeModel(title string) (make, model string) {
	lower := strings.ToLower(title)

	for _, candidate := range multiWordMakes {
		if idx := strings.Index(lower, candidate); idx >= 0 {
			return carMakes[candidate], modelAfter(title, idx+len(candidate))
		}
	}

	// Track each field's position: a make can also occur as a substring of
	// an earlier unrelated word, which must not shift the model offset.
	pos := 0
	for _, word := range strings.Fields(lower) {
		start := strings.Index(lower[pos:], word) + pos
		pos = start + len(word)

		trimmed := strings.Trim(word, ".,;:()")
		canonical, ok := carMakes[trimmed]
		if !ok {
			continue
		}
		inner := strings.Index(word, trimmed)
		return canonical, modelAfter(title, start+inner+len(trimmed))
	}

	return "", ""
}

func modelAfter(title string, offset int) string {
	if offset >= len(title) {
		return ""
	}
	rest := strings.TrimSpace(title[offset:])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	// The model is at most the first two tokens after the make; anything
	// beyond that is usually trim level or seller prose.
	if len(fields) > 2 {
		fields = fields[:2]
	}
	model := strings.Join(fields, " ")
	return strings.Trim(model, ".,;:-")
}
