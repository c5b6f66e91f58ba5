package dataset

import "strings"

// countryAliases maps known spelling variants to the names used by the
// upstream time-series files. The source files are not consistent with each
// other, and the upstream project keeps no canonical table, so this one is
// curated here. Matching is case-insensitive; keys are lower case.
var countryAliases = map[string]string{
	"republic of korea":              "Korea, South",
	"south korea":                    "Korea, South",
	"korea, republic of":             "Korea, South",
	"mainland china":                 "China",
	"taiwan":                         "Taiwan*",
	"taipei and environs":            "Taiwan*",
	"united states":                  "US",
	"united states of america":       "US",
	"uk":                             "United Kingdom",
	"viet nam":                       "Vietnam",
	"russian federation":             "Russia",
	"iran (islamic republic of)":     "Iran",
	"czech republic":                 "Czechia",
	"myanmar":                        "Burma",
	"cape verde":                     "Cabo Verde",
	"ivory coast":                    "Cote d'Ivoire",
	"republic of moldova":            "Moldova",
	"republic of the congo":          "Congo (Brazzaville)",
	"democratic republic of congo":   "Congo (Kinshasa)",
	"the bahamas":                    "Bahamas",
	"bahamas, the":                   "Bahamas",
	"the gambia":                     "Gambia",
	"gambia, the":                    "Gambia",
	"east timor":                     "Timor-Leste",
	"vatican city":                   "Holy See",
	"palestine":                      "West Bank and Gaza",
	"occupied palestinian territory": "West Bank and Gaza",
}

// CanonicalCountry normalizes a source country name. Unknown names pass
// through trimmed, so a new upstream spelling degrades to a join warning
// rather than a dropped region.
func CanonicalCountry(name string) string {
	trimmed := strings.TrimSpace(name)
	if canon, ok := countryAliases[strings.ToLower(trimmed)]; ok {
		return canon
	}
	return trimmed
}
