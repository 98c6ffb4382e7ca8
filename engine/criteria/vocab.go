package criteria

import (
	"sort"
	"strings"
)

// knownStates maps lowercase US state names to their canonical form. The
// gazetteer is intentionally closed: place matching is exact against this
// table first, substring fallback second.
var knownStates = map[string]string{
	"alabama": "Alabama", "alaska": "Alaska", "arizona": "Arizona",
	"arkansas": "Arkansas", "california": "California", "colorado": "Colorado",
	"connecticut": "Connecticut", "delaware": "Delaware", "florida": "Florida",
	"georgia": "Georgia", "hawaii": "Hawaii", "idaho": "Idaho",
	"illinois": "Illinois", "indiana": "Indiana", "iowa": "Iowa",
	"kansas": "Kansas", "kentucky": "Kentucky", "louisiana": "Louisiana",
	"maine": "Maine", "maryland": "Maryland", "massachusetts": "Massachusetts",
	"michigan": "Michigan", "minnesota": "Minnesota", "mississippi": "Mississippi",
	"missouri": "Missouri", "montana": "Montana", "nebraska": "Nebraska",
	"nevada": "Nevada", "new hampshire": "New Hampshire", "new jersey": "New Jersey",
	"new mexico": "New Mexico", "new york": "New York", "north carolina": "North Carolina",
	"north dakota": "North Dakota", "ohio": "Ohio", "oklahoma": "Oklahoma",
	"oregon": "Oregon", "pennsylvania": "Pennsylvania", "rhode island": "Rhode Island",
	"south carolina": "South Carolina", "south dakota": "South Dakota",
	"tennessee": "Tennessee", "texas": "Texas", "utah": "Utah",
	"vermont": "Vermont", "virginia": "Virginia", "washington": "Washington",
	"west virginia": "West Virginia", "wisconsin": "Wisconsin", "wyoming": "Wyoming",
}

// knownCities covers the cities present in the seeded vendor dataset.
var knownCities = map[string]string{
	"san francisco": "San Francisco",
	"new york city": "New York City",
	"los angeles":   "Los Angeles",
	"austin":        "Austin",
	"chicago":       "Chicago",
	"seattle":       "Seattle",
	"boston":        "Boston",
	"denver":        "Denver",
	"portland":      "Portland",
	"atlanta":       "Atlanta",
	"dallas":        "Dallas",
	"houston":       "Houston",
	"miami":         "Miami",
	"phoenix":       "Phoenix",
	"philadelphia":  "Philadelphia",
}

// serviceVocab maps lowercase service phrases to the canonical service name
// used in the vendor_services table. Longest phrases must win, so lookups go
// through sortedVocabKeys.
var serviceVocab = map[string]string{
	"cloud infrastructure": "Cloud Infrastructure",
	"cloud services":       "Cloud Infrastructure",
	"cloud hosting":        "Cloud Infrastructure",
	"data analytics":       "Data Analytics",
	"business analytics":   "Data Analytics",
	"security services":    "Security Services",
	"cybersecurity":        "Security Services",
	"web development":      "Web Development",
	"energy services":      "Energy Services",
	"solar installation":   "Energy Services",
	"machine learning":     "Machine Learning",
	"supply chain":         "Supply Chain Management",
	"fleet management":     "Supply Chain Management",
	"graphic design":       "Design Services",
	"brand design":         "Design Services",
}

// categoryVocab maps lowercase category words to the canonical category used
// in both stores.
var categoryVocab = map[string]string{
	"technology": "Technology",
	"tech":       "Technology",
	"energy":     "Energy",
	"analytics":  "Analytics",
	"design":     "Design",
	"logistics":  "Logistics",
	"consulting": "Consulting",
	"security":   "Security",
	"marketing":  "Marketing",
}

// knownVendors lists the vendor names present in the seeded dataset so a
// direct mention becomes a text criterion instead of noise.
var knownVendors = []string{
	"TechCorp Solutions",
	"DataFlow Systems",
	"CloudMaster Inc",
	"GreenEnergy Corp",
	"DesignWorks Studio",
	"LogisticsPro",
}

// sortedVocabKeys returns map keys longest-first so multi-word phrases are
// matched before their single-word prefixes. Equal-length keys sort
// lexicographically; map iteration order must never leak into results.
func sortedVocabKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// lookupPlace resolves a candidate phrase against the gazetteer, trying the
// longest leading word run first. Returns the canonical name or "".
func lookupPlace(phrase string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(phrase)))
	if len(words) == 0 {
		return ""
	}
	max := len(words)
	if max > 3 {
		max = 3
	}
	for n := max; n >= 1; n-- {
		cand := strings.Join(words[:n], " ")
		if c, ok := knownStates[cand]; ok {
			return c
		}
		if c, ok := knownCities[cand]; ok {
			return c
		}
	}
	return ""
}
