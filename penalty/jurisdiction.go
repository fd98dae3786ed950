package penalty

import "strings"

// Jurisdiction is one of the eight Australian states and territories.
type Jurisdiction struct {
	Code string
	Name string
}

// Jurisdictions lists the states and territories in canonical display order.
var Jurisdictions = []Jurisdiction{
	{"NSW", "New South Wales"},
	{"VIC", "Victoria"},
	{"QLD", "Queensland"},
	{"WA", "Western Australia"},
	{"SA", "South Australia"},
	{"TAS", "Tasmania"},
	{"NT", "Northern Territory"},
	{"ACT", "Australian Capital Territory"},
}

var (
	nameByCode = make(map[string]string, len(Jurisdictions))
	codeByName = make(map[string]string, len(Jurisdictions))
	rankByName = make(map[string]int, len(Jurisdictions))
)

func init() {
	for i, j := range Jurisdictions {
		nameByCode[j.Code] = j.Name
		codeByName[j.Name] = j.Code
		rankByName[j.Name] = i
	}
}

// FullName expands a short code ("NSW") to its full name. Values that are not
// a known code are returned unchanged.
func FullName(code string) string {
	if name, ok := nameByCode[code]; ok {
		return name
	}
	return code
}

// ShortCode returns the abbreviation for a full jurisdiction name, or the name
// itself when it is not one of the eight.
func ShortCode(name string) string {
	if code, ok := codeByName[name]; ok {
		return code
	}
	return name
}

// Known reports whether name is one of the eight canonical full names.
func Known(name string) bool {
	_, ok := rankByName[name]
	return ok
}

// CanonicalRank returns the display position of a full name, or -1.
func CanonicalRank(name string) int {
	if r, ok := rankByName[name]; ok {
		return r
	}
	return -1
}

// CanonicalOrder returns the full names in display order, keeping only those
// present. It never invents or reorders a category.
func CanonicalOrder(present map[string]bool) []string {
	var out []string
	for _, j := range Jurisdictions {
		if present[j.Name] {
			out = append(out, j.Name)
		}
	}
	return out
}

// looseCode reduces a jurisdiction spelling to bare upper-case letters so that
// "N.S.W." and "nsw" compare equal.
func looseCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SuggestJurisdiction finds the canonical full name a non-standard spelling
// most likely refers to. It returns "" when nothing matches.
func SuggestJurisdiction(raw string) string {
	loose := looseCode(raw)
	if loose == "" {
		return ""
	}
	for _, j := range Jurisdictions {
		if loose == j.Code || loose == looseCode(j.Name) {
			return j.Name
		}
	}
	return ""
}
