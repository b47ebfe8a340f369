package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// HoursUnknown is the contract value other components rely on as
// "no known hours"; keep it stable.
const HoursUnknown = "Hours vary"

// CuisineInternational is the catch-all bucket for unmatched taxonomy tags
const CuisineInternational = "International"

// cuisineTable maps provider taxonomy tags (lowercased) to the canonical
// cuisine vocabulary. Providers use wildly different tag sets; anything
// not listed here normalizes to International.
var cuisineTable = map[string]string{
	"italian":       "Italian",
	"trattoria":     "Italian",
	"pasta":         "Italian",
	"pizza":         "Pizza",
	"pizzeria":      "Pizza",
	"japanese":      "Japanese",
	"sushi":         "Sushi",
	"ramen":         "Japanese",
	"izakaya":       "Japanese",
	"chinese":       "Chinese",
	"szechuan":      "Chinese",
	"cantonese":     "Chinese",
	"dim sum":       "Chinese",
	"dimsum":        "Chinese",
	"mexican":       "Mexican",
	"tacos":         "Mexican",
	"taqueria":      "Mexican",
	"tex-mex":       "Mexican",
	"indian":        "Indian",
	"indpak":        "Indian",
	"curry":         "Indian",
	"thai":          "Thai",
	"french":        "French",
	"bistro":        "French",
	"brasserie":     "French",
	"mediterranean": "Mediterranean",
	"greek":         "Mediterranean",
	"lebanese":      "Mediterranean",
	"falafel":       "Mediterranean",
	"american":      "American",
	"newamerican":   "American",
	"tradamerican":  "American",
	"diner":         "American",
	"korean":        "Korean",
	"bbq":           "BBQ",
	"barbecue":      "BBQ",
	"barbeque":      "BBQ",
	"smokehouse":    "BBQ",
	"vietnamese":    "Vietnamese",
	"pho":           "Vietnamese",
	"seafood":       "Seafood",
	"fish":          "Seafood",
	"oyster bar":    "Seafood",
	"steakhouse":    "Steakhouse",
	"steak":         "Steakhouse",
	"steak house":   "Steakhouse",
	"burgers":       "Burgers",
	"burger":        "Burgers",
	"hamburger":     "Burgers",
	"cafe":          "Cafe",
	"coffee":        "Cafe",
	"coffee shop":   "Cafe",
	"bakery":        "Bakery",
	"bakeries":      "Bakery",
	"patisserie":    "Bakery",
	"vegetarian":    "Vegetarian",
	"vegan":         "Vegetarian",
	"salad":         "Vegetarian",
}

// Cuisine maps provider taxonomy tags to the canonical cuisine vocabulary.
// The first tag with a table entry wins; unmatched tags normalize to
// International.
func Cuisine(tags ...string) string {
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			continue
		}
		if cuisine, ok := cuisineTable[key]; ok {
			return cuisine
		}
		// Tags like "Italian restaurant" or "sushi_bar" still carry a
		// recognizable cuisine word
		for word := range cuisineTable {
			if strings.Contains(key, word) {
				return cuisineTable[word]
			}
		}
	}
	return CuisineInternational
}

// PriceLevel normalizes provider price expressions to the 1-4 scale.
// Accepts numeric levels, "$"-repeated strings, and a handful of free-text
// phrases. Returns nil when nothing parses.
func PriceLevel(raw string) *int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	if dollars := strings.Count(s, "$"); dollars > 0 && dollars == len(s) {
		return clampPrice(dollars)
	}

	switch s {
	case "1", "2", "3", "4":
		level := int(s[0] - '0')
		return &level
	case "cheap", "inexpensive", "budget":
		return clampPrice(1)
	case "moderate", "moderately priced", "mid-range", "average":
		return clampPrice(2)
	case "expensive", "pricey", "upscale":
		return clampPrice(3)
	case "very expensive", "luxury", "fine dining":
		return clampPrice(4)
	}

	// Yelp-style ranges like "$$ - $$$" take the lower bound
	if strings.HasPrefix(s, "$") {
		dollars := 0
		for _, r := range s {
			if r == '$' {
				dollars++
			} else {
				break
			}
		}
		if dollars > 0 {
			return clampPrice(dollars)
		}
	}

	return nil
}

func clampPrice(level int) *int {
	if level < 1 {
		level = 1
	}
	if level > 4 {
		level = 4
	}
	return &level
}

// Address collapses repeated whitespace and appends the queried city when
// the provider's address string omits it.
func Address(raw, cityHint string) string {
	addr := strings.Join(strings.Fields(raw), " ")
	city := strings.TrimSpace(cityHint)
	if addr == "" {
		return city
	}
	if city != "" && !strings.Contains(strings.ToLower(addr), strings.ToLower(city)) {
		addr = addr + ", " + city
	}
	return addr
}

var dayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Hours normalizes opening hours. Structured day-keyed maps render as a
// canonical "Mon: ..." listing; a bare text value becomes "Today: <text>";
// anything unparseable becomes the HoursUnknown contract string.
func Hours(structured map[string]string, freeText string) string {
	if len(structured) > 0 {
		keys := make([]string, 0, len(structured))
		for k := range structured {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return dayRank(keys[i]) < dayRank(keys[j]) })

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			v := strings.TrimSpace(structured[k])
			if v == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", shortDay(k), v))
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	if text := strings.TrimSpace(freeText); text != "" {
		return "Today: " + text
	}

	return HoursUnknown
}

func dayRank(day string) int {
	d := strings.ToLower(strings.TrimSpace(day))
	for i, name := range dayOrder {
		if strings.HasPrefix(name, d) || strings.HasPrefix(d, name[:3]) {
			return i
		}
	}
	return len(dayOrder)
}

func shortDay(day string) string {
	d := strings.ToLower(strings.TrimSpace(day))
	for _, name := range dayOrder {
		if strings.HasPrefix(name, d) || strings.HasPrefix(d, name[:3]) {
			return strings.ToUpper(name[:1]) + name[1:3]
		}
	}
	return day
}

// Name lowercases and trims a restaurant name for merge-key comparison
func Name(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}
