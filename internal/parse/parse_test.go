package parse

import (
	"testing"
	"time"
)

var parseNow = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		item     string
		category string
		color    string
		location string
		date     string
	}{
		{
			"Lost black wallet in the cafeteria today",
			"wallet", "wallet", "black", "Cafeteria", "2024-01-15",
		},
		{
			"found a blue iPhone near the library yesterday",
			"phone", "phone", "blue", "Library", "2024-01-14",
		},
		{
			"silver macbook left in lecture hall",
			"laptop", "electronics", "silver", "Lecture Hall", "2024-01-15",
		},
		{
			"lost my keys at the gym",
			"keys", "keys", "", "Gym", "2024-01-15",
		},
		{
			"mystery object near the fountain",
			"unknown item", "other", "", "unknown location", "2024-01-15",
		},
	}

	for _, tt := range tests {
		got := Parse(tt.text, parseNow)
		if got.Item != tt.item || got.Category != tt.category {
			t.Errorf("Parse(%q) item/category = %s/%s, want %s/%s",
				tt.text, got.Item, got.Category, tt.item, tt.category)
		}
		if got.Color != tt.color {
			t.Errorf("Parse(%q) color = %q, want %q", tt.text, got.Color, tt.color)
		}
		if got.Location != tt.location {
			t.Errorf("Parse(%q) location = %q, want %q", tt.text, got.Location, tt.location)
		}
		if got.Date != tt.date {
			t.Errorf("Parse(%q) date = %s, want %s", tt.text, got.Date, tt.date)
		}
		if got.Description != tt.text {
			t.Errorf("Parse(%q) description = %q", tt.text, got.Description)
		}
	}
}

func TestParseFirstPatternWins(t *testing.T) {
	// Both wallet and phone appear; the wallet pattern is checked first.
	got := Parse("lost wallet and phone", parseNow)
	if got.Category != "wallet" {
		t.Errorf("category = %s, want wallet", got.Category)
	}
}

func TestGhostText(t *testing.T) {
	tests := []struct {
		partial  string
		expected string
	}{
		{"Lost black", " wallet in cafeteria today"},
		{"lost black", " wallet in cafeteria today"},
		{"Found blue", " water bottle near library"},
		{"Lo", ""},
		{"xyz nothing", ""},
	}

	for _, tt := range tests {
		if got := GhostText(tt.partial); got != tt.expected {
			t.Errorf("GhostText(%q) = %q, want %q", tt.partial, got, tt.expected)
		}
	}
}
