package enrich

import "strings"

// Vibe tag vocabulary. A generated tag must share a word with this set or
// it is rejected; the set covers the adjectives the templates emit plus
// common descriptors seen in review text.
var vibeVocab = map[string]bool{
	"cozy": true, "romantic": true, "lively": true, "casual": true,
	"upscale": true, "trendy": true, "family-friendly": true, "family": true,
	"quiet": true, "rustic": true, "modern": true, "traditional": true,
	"authentic": true, "intimate": true, "vibrant": true, "relaxed": true,
	"elegant": true, "hip": true, "classic": true, "charming": true,
	"bustling": true, "spacious": true, "warm": true, "friendly": true,
	"popular": true, "local": true, "festive": true, "laid-back": true,
}

// menu placeholders that must never surface as a top pick
var menuPlaceholders = []string{
	"chef's choice", "chefs choice", "house special", "daily special",
	"market price", "ask your server", "seasonal selection", "tbd",
	"special of the day", "menu item",
}

// ValidVibeTag accepts tags of 2-20 characters whose words overlap the
// vibe vocabulary
func ValidVibeTag(tag string) bool {
	t := strings.TrimSpace(tag)
	if len(t) < 2 || len(t) > 20 {
		return false
	}
	for _, word := range strings.FieldsFunc(strings.ToLower(t), func(r rune) bool {
		return r == ' ' || r == '/'
	}) {
		if vibeVocab[word] {
			return true
		}
	}
	return false
}

// ValidTopPick rejects empty names, placeholders and anything too long to
// be a dish name
func ValidTopPick(dish string) bool {
	d := strings.TrimSpace(dish)
	if len(d) < 3 || len(d) > 60 {
		return false
	}
	lower := strings.ToLower(d)
	for _, p := range menuPlaceholders {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// ValidDescription enforces the plain-text contract on generated
// descriptions: non-empty, bounded, no markdown artifacts.
func ValidDescription(desc string) bool {
	d := strings.TrimSpace(desc)
	if len(d) < 20 || len(d) > 400 {
		return false
	}
	return !strings.Contains(d, "```") && !strings.Contains(d, "##")
}
