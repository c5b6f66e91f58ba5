package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// Population maps canonical country names to population counts. A missing
// entry means the incident-rate views skip that country.
type Population map[string]float64

// Lookup resolves a country through the alias table.
func (p Population) Lookup(country string) float64 {
	return p[CanonicalCountry(country)]
}

// PopulationFromLookup extracts country-level population figures from the
// upstream UID/ISO/FIPS lookup table. Only rows without a Province_State
// qualify; sub-region rows would double-count.
func PopulationFromLookup(df dataframe.DataFrame) (Population, error) {
	names := df.Names()
	countryIdx, provinceIdx, popIdx := -1, -1, -1
	for i, n := range names {
		switch n {
		case "Country_Region", "Country/Region":
			countryIdx = i
		case "Province_State", "Province/State":
			provinceIdx = i
		case "Population":
			popIdx = i
		}
	}
	if countryIdx < 0 || popIdx < 0 {
		return nil, fmt.Errorf("population lookup: missing Country_Region or Population column in %v", names)
	}

	pop := make(Population)
	var worldwide float64
	for _, row := range df.Records()[1:] {
		if countryIdx >= len(row) || popIdx >= len(row) {
			continue
		}
		if provinceIdx >= 0 && provinceIdx < len(row) && row[provinceIdx] != "" {
			continue
		}
		country := CanonicalCountry(row[countryIdx])
		v := parseCount(row[popIdx])
		if country == "" || v <= 0 {
			continue
		}
		pop[country] = v
		worldwide += v
	}
	pop["Worldwide"] = worldwide
	return pop, nil
}

// EmbeddedPopulation returns the baked-in population table used when the
// upstream lookup cannot be fetched. Figures are 2020 estimates matching the
// time-series country names.
func EmbeddedPopulation() Population {
	pop := make(Population, len(embeddedPopulation))
	for k, v := range embeddedPopulation {
		pop[k] = v
	}
	return pop
}

var embeddedPopulation = map[string]float64{
	"Worldwide":                        7711863221,
	"Afghanistan":                      38928341,
	"Albania":                          2877800,
	"Algeria":                          43851043,
	"Andorra":                          77265,
	"Angola":                           32866268,
	"Antigua and Barbuda":              97928,
	"Argentina":                        45195777,
	"Armenia":                          2963234,
	"Austria":                          9006400,
	"Azerbaijan":                       10139175,
	"Bahamas":                          393248,
	"Bahrain":                          1701583,
	"Bangladesh":                       164689383,
	"Barbados":                         287371,
	"Belarus":                          9449321,
	"Belgium":                          11589616,
	"Belize":                           397621,
	"Benin":                            12123198,
	"Bhutan":                           771612,
	"Bolivia":                          11673029,
	"Bosnia and Herzegovina":           3280815,
	"Botswana":                         2351625,
	"Brazil":                           212559409,
	"Brunei":                           437483,
	"Bulgaria":                         6948445,
	"Burkina Faso":                     20903278,
	"Burma":                            54409794,
	"Burundi":                          11890781,
	"Cabo Verde":                       555988,
	"Cambodia":                         16718971,
	"Cameroon":                         26545864,
	"Central African Republic":         4829764,
	"Chad":                             16425859,
	"Chile":                            19116209,
	"Colombia":                         50882884,
	"Congo (Brazzaville)":              5518092,
	"Congo (Kinshasa)":                 89561404,
	"Comoros":                          869595,
	"Costa Rica":                       5094114,
	"Croatia":                          4105268,
	"Cuba":                             11326616,
	"Cyprus":                           1207361,
	"Czechia":                          10708982,
	"Denmark":                          5792203,
	"Djibouti":                         988002,
	"Dominica":                         71991,
	"Dominican Republic":               10847904,
	"Ecuador":                          17643060,
	"Egypt":                            102334403,
	"El Salvador":                      6486201,
	"Equatorial Guinea":                1402985,
	"Eritrea":                          3546427,
	"Estonia":                          1326539,
	"Eswatini":                         1160164,
	"Ethiopia":                         114963583,
	"Fiji":                             896444,
	"Finland":                          5540718,
	"France":                           65273512,
	"Gabon":                            2225728,
	"Gambia":                           2416664,
	"Georgia":                          3989175,
	"Germany":                          83783945,
	"Ghana":                            31072945,
	"Greece":                           10423056,
	"Grenada":                          112519,
	"Guatemala":                        17915567,
	"Guinea":                           13132792,
	"Guinea-Bissau":                    1967998,
	"Guyana":                           786559,
	"Haiti":                            11402533,
	"Holy See":                         809,
	"Honduras":                         9904608,
	"Hungary":                          9660350,
	"Iceland":                          341250,
	"India":                            1380004385,
	"Indonesia":                        273523621,
	"Iran":                             83992953,
	"Iraq":                             40222503,
	"Ireland":                          4937796,
	"Israel":                           8655541,
	"Italy":                            60461828,
	"Jamaica":                          2961161,
	"Japan":                            126476458,
	"Jordan":                           10203140,
	"Kazakhstan":                       18776707,
	"Kenya":                            53771300,
	"Korea, South":                     51269183,
	"Kosovo":                           1810366,
	"Kuwait":                           4270563,
	"Kyrgyzstan":                       6524191,
	"Laos":                             7275556,
	"Latvia":                           1886202,
	"Lebanon":                          6825442,
	"Lesotho":                          2142252,
	"Liberia":                          5057677,
	"Libya":                            6871287,
	"Liechtenstein":                    38137,
	"Lithuania":                        2722291,
	"Luxembourg":                       625976,
	"Madagascar":                       27691019,
	"Malawi":                           19129955,
	"Malaysia":                         32365998,
	"Maldives":                         540542,
	"Mali":                             20250834,
	"Malta":                            441539,
	"Marshall Islands":                 58413,
	"Mauritania":                       4649660,
	"Mauritius":                        1271767,
	"Mexico":                           127792286,
	"Moldova":                          4033963,
	"Monaco":                           39244,
	"Mongolia":                         3278292,
	"Montenegro":                       628062,
	"Morocco":                          36910558,
	"Mozambique":                       31255435,
	"Namibia":                          2540916,
	"Nepal":                            29136808,
	"Netherlands":                      17134873,
	"New Zealand":                      4822233,
	"Nicaragua":                        6624554,
	"Niger":                            24206636,
	"Nigeria":                          206139587,
	"North Macedonia":                  2083380,
	"Norway":                           5421242,
	"Oman":                             5106622,
	"Pakistan":                         220892331,
	"Panama":                           4314768,
	"Papua New Guinea":                 8947027,
	"Paraguay":                         7132530,
	"Peru":                             32971846,
	"Philippines":                      109581085,
	"Poland":                           37846605,
	"Portugal":                         10196707,
	"Qatar":                            2881060,
	"Romania":                          19237682,
	"Russia":                           145934460,
	"Rwanda":                           12952209,
	"Saint Kitts and Nevis":            53192,
	"Saint Lucia":                      183629,
	"Saint Vincent and the Grenadines": 110947,
	"Samoa":                            196130,
	"San Marino":                       33938,
	"Sao Tome and Principe":            219161,
	"Saudi Arabia":                     34813867,
	"Senegal":                          16743930,
	"Serbia":                           8737370,
	"Seychelles":                       98340,
	"Sierra Leone":                     7976985,
	"Singapore":                        5850343,
	"Slovakia":                         5459643,
	"Slovenia":                         2078932,
	"Solomon Islands":                  652858,
	"Somalia":                          15893219,
	"South Africa":                     59308690,
	"South Sudan":                      11193729,
	"Spain":                            46754783,
	"Sri Lanka":                        21413250,
	"Sudan":                            43849269,
	"Suriname":                         586634,
	"Sweden":                           10099270,
	"Switzerland":                      8654618,
	"Syria":                            17500657,
	"Taiwan*":                          23816775,
	"Tajikistan":                       9537642,
	"Tanzania":                         59734213,
	"Thailand":                         69799978,
	"Timor-Leste":                      1318442,
	"Togo":                             8278737,
	"Trinidad and Tobago":              1399491,
	"Tunisia":                          11818618,
	"Turkey":                           84339067,
	"Uganda":                           45741000,
	"Ukraine":                          43733759,
	"United Arab Emirates":             9890400,
	"United Kingdom":                   67886004,
	"Uruguay":                          3473727,
	"Uzbekistan":                       33469199,
	"Vanuatu":                          292680,
	"Venezuela":                        28435943,
	"Vietnam":                          97338583,
	"West Bank and Gaza":               5101416,
	"Western Sahara":                   597330,
	"Yemen":                            29825968,
	"Zambia":                           18383956,
	"Zimbabwe":                         14862927,
	"Australia":                        25459700,
	"Canada":                           37855702,
	"China":                            1404676330,
	"US":                               329466283,
}
