package enrich

import (
	"fmt"
	"strings"

	"github.com/arjunmehta31/forkcast/internal/search"
)

// Templated content used whenever generation fails or no LLM provider is
// configured. Built only from fields already on the record, so it can
// never state anything the providers did not.

// cuisineVibes carries a base tag set for every canonical cuisine the
// normalizer emits, so templated tags always start from at least three.
var cuisineVibes = map[string][]string{
	"Italian":       {"Cozy", "Romantic", "Classic"},
	"Pizza":         {"Casual", "Lively", "Family-friendly"},
	"Japanese":      {"Quiet", "Modern", "Authentic"},
	"Sushi":         {"Quiet", "Modern", "Elegant"},
	"Mexican":       {"Lively", "Casual", "Festive"},
	"Indian":        {"Warm", "Authentic", "Family-friendly"},
	"Thai":          {"Casual", "Vibrant", "Authentic"},
	"French":        {"Elegant", "Romantic", "Intimate"},
	"Chinese":       {"Casual", "Family-friendly", "Bustling"},
	"American":      {"Casual", "Lively", "Classic"},
	"BBQ":           {"Casual", "Lively", "Rustic"},
	"Seafood":       {"Classic", "Relaxed", "Upscale"},
	"Steakhouse":    {"Upscale", "Classic", "Elegant"},
	"Burgers":       {"Casual", "Lively", "Laid-back"},
	"Cafe":          {"Cozy", "Relaxed", "Charming"},
	"Bakery":        {"Cozy", "Charming", "Warm"},
	"Vegetarian":    {"Modern", "Relaxed", "Friendly"},
	"Mediterranean": {"Warm", "Relaxed", "Rustic"},
	"Korean":        {"Lively", "Modern", "Authentic"},
	"Vietnamese":    {"Casual", "Quiet", "Authentic"},
	"International": {"Casual", "Friendly", "Relaxed"},
}

var cuisineDishes = map[string][]string{
	"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Tiramisu"},
	"Pizza":         {"Margherita Pizza", "Pepperoni Pizza", "Garlic Knots"},
	"Japanese":      {"Salmon Nigiri", "Tonkotsu Ramen", "Chicken Karaage"},
	"Sushi":         {"Salmon Nigiri", "Spicy Tuna Roll", "Miso Soup"},
	"Mexican":       {"Tacos al Pastor", "Guacamole", "Quesadillas"},
	"Indian":        {"Butter Chicken", "Garlic Naan", "Biryani"},
	"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup"},
	"French":        {"Onion Soup", "Steak Frites", "Creme Brulee"},
	"Chinese":       {"Pork Dumplings", "Kung Pao Chicken", "Fried Rice"},
	"American":      {"Cheeseburger", "Buffalo Wings", "Mac and Cheese"},
	"BBQ":           {"Smoked Brisket", "Pulled Pork Sandwich", "Baby Back Ribs"},
	"Seafood":       {"Grilled Salmon", "Fish and Chips", "Shrimp Scampi"},
	"Steakhouse":    {"Ribeye Steak", "Filet Mignon", "Creamed Spinach"},
	"Burgers":       {"Cheeseburger", "Bacon Burger", "Sweet Potato Fries"},
	"Cafe":          {"Avocado Toast", "Flat White", "Banana Bread"},
	"Bakery":        {"Butter Croissant", "Sourdough Loaf", "Cinnamon Roll"},
	"Vegetarian":    {"Falafel Bowl", "Grilled Vegetable Plate", "Lentil Soup"},
	"Mediterranean": {"Hummus", "Grilled Halloumi", "Lamb Kofta"},
	"Korean":        {"Bibimbap", "Korean Fried Chicken", "Kimchi Stew"},
	"Vietnamese":    {"Pho", "Banh Mi", "Spring Rolls"},
}

// review keywords that add a tag when they appear in snippets
var reviewKeywordTags = map[string]string{
	"romantic": "Romantic",
	"cozy":     "Cozy",
	"date":     "Romantic",
	"family":   "Family-friendly",
	"kids":     "Family-friendly",
	"loud":     "Lively",
	"quiet":    "Quiet",
	"fancy":    "Upscale",
	"cheap":    "Casual",
	"hip":      "Trendy",
}

func fallbackDescription(r search.Merged) string {
	cuisine := r.Cuisine
	if cuisine == "" {
		cuisine = "International"
	}
	sentiment := "a casual neighborhood option"
	if r.Rating != nil {
		switch {
		case *r.Rating >= 4.5:
			sentiment = "a favorite with consistently glowing reviews"
		case *r.Rating >= 4.0:
			sentiment = "well reviewed by recent visitors"
		case *r.Rating >= 3.5:
			sentiment = "a solid choice with mostly positive reviews"
		}
	}
	return fmt.Sprintf("%s serves %s cuisine and is %s.", r.Name, cuisine, sentiment)
}

// fallbackVibeTags builds 3-5 tags from the cuisine base set plus review
// keyword hits, backfilled with generic tags when short
func fallbackVibeTags(r search.Merged) []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		if len(tags) >= 5 || seen[strings.ToLower(tag)] || !ValidVibeTag(tag) {
			return
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}

	base, ok := cuisineVibes[r.Cuisine]
	if !ok {
		base = cuisineVibes["International"]
	}
	for _, t := range base {
		add(t)
	}
	reviews := strings.ToLower(strings.Join(r.ReviewSnippets, " "))
	for keyword, tag := range reviewKeywordTags {
		if strings.Contains(reviews, keyword) {
			add(tag)
		}
	}
	add("Popular")
	add("Local")
	return tags
}

func fallbackTopPicks(r search.Merged) []string {
	var picks []string
	name := strings.ToLower(r.Name)
	switch {
	case strings.Contains(name, "pizza"):
		picks = append(picks, "Margherita Pizza", "Pepperoni Pizza")
	case strings.Contains(name, "sushi"):
		picks = append(picks, "Salmon Nigiri", "Spicy Tuna Roll")
	case strings.Contains(name, "taco"):
		picks = append(picks, "Tacos al Pastor", "Carnitas Tacos")
	case strings.Contains(name, "burger"):
		picks = append(picks, "Cheeseburger", "Bacon Burger")
	case strings.Contains(name, "ramen"):
		picks = append(picks, "Tonkotsu Ramen", "Spicy Miso Ramen")
	}
	for _, d := range cuisineDishes[r.Cuisine] {
		if len(picks) >= 3 {
			break
		}
		dup := false
		for _, p := range picks {
			if p == d {
				dup = true
				break
			}
		}
		if !dup {
			picks = append(picks, d)
		}
	}
	return picks
}
