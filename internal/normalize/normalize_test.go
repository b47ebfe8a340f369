package normalize

import "testing"

func TestCuisine(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"direct match", []string{"italian"}, "Italian"},
		{"case insensitive", []string{"Japanese"}, "Japanese"},
		{"yelp alias", []string{"indpak"}, "Indian"},
		{"first match wins", []string{"thai", "french"}, "Thai"},
		{"skips unknown tags", []string{"point_of_interest", "mexican"}, "Mexican"},
		{"substring match", []string{"sushi_bar"}, "Sushi"},
		{"phrase match", []string{"Italian restaurant"}, "Italian"},
		{"unmatched", []string{"establishment", "food"}, CuisineInternational},
		{"empty", nil, CuisineInternational},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cuisine(tt.tags...); got != tt.want {
				t.Errorf("Cuisine(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}

func TestPriceLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want int // 0 means nil
	}{
		{"2", 2},
		{"$", 1},
		{"$$$", 3},
		{"$$$$", 4},
		{"$$ - $$$", 2},
		{"cheap", 1},
		{"Moderate", 2},
		{"expensive", 3},
		{"very expensive", 4},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		got := PriceLevel(tt.raw)
		if tt.want == 0 {
			if got != nil {
				t.Errorf("PriceLevel(%q) = %d, want nil", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("PriceLevel(%q) = %v, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		raw, city, want string
	}{
		{"123 Mulberry  St", "New York", "123 Mulberry St, New York"},
		{"123 Mulberry St, New York, NY 10013", "New York", "123 Mulberry St, New York, NY 10013"},
		{"456 Main st, new york", "New York", "456 Main st, new york"},
		{"", "Austin", "Austin"},
		{"  78  Spring   St  ", "", "78 Spring St"},
	}
	for _, tt := range tests {
		if got := Address(tt.raw, tt.city); got != tt.want {
			t.Errorf("Address(%q, %q) = %q, want %q", tt.raw, tt.city, got, tt.want)
		}
	}
}

func TestHours(t *testing.T) {
	structured := map[string]string{
		"friday": "11AM-11PM",
		"monday": "11AM-10PM",
	}
	got := Hours(structured, "")
	want := "Mon: 11AM-10PM; Fri: 11AM-11PM"
	if got != want {
		t.Errorf("structured hours = %q, want %q", got, want)
	}

	if got := Hours(nil, "Open until 9 PM"); got != "Today: Open until 9 PM" {
		t.Errorf("free-text hours = %q", got)
	}

	// The fallback literal is a contract other components depend on
	if got := Hours(nil, ""); got != HoursUnknown {
		t.Errorf("empty hours = %q, want %q", got, HoursUnknown)
	}
	if got := Hours(map[string]string{"monday": "  "}, ""); got != HoursUnknown {
		t.Errorf("blank structured hours = %q, want %q", got, HoursUnknown)
	}
}

func TestName(t *testing.T) {
	if got := Name("  Joe's   Pizza "); got != "joe's pizza" {
		t.Errorf("Name = %q", got)
	}
	// Exact-match baseline: apostrophe variants stay distinct
	if Name("Joe's Pizza") == Name("Joes Pizza") {
		t.Error("apostrophe variants must not collapse to the same merge key")
	}
}
