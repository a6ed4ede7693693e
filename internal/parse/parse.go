// Package parse extracts structured posting fields from free-text input.
// It is a deterministic, rule-based stand-in for a language model: callers
// depend only on the Input shape, so a model-backed parser can replace it.
package parse

import (
	"strings"
	"time"
)

// Input is a structured reading of a free-text posting.
type Input struct {
	Item        string `json:"item"`
	Category    string `json:"category"`
	Color       string `json:"color,omitempty"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type itemPattern struct {
	keywords []string
	item     string
	category string
}

// itemPatterns are checked in order; the first hit wins.
var itemPatterns = []itemPattern{
	{[]string{"wallet", "purse"}, "wallet", "wallet"},
	{[]string{"phone", "iphone", "android", "mobile"}, "phone", "phone"},
	{[]string{"keys", "key"}, "keys", "keys"},
	{[]string{"backpack", "bag", "rucksack"}, "bag", "bag"},
	{[]string{"bottle", "water bottle", "thermos"}, "bottle", "bottle"},
	{[]string{"laptop", "computer", "macbook"}, "laptop", "electronics"},
	{[]string{"headphones", "earbuds", "airpods"}, "headphones", "electronics"},
	{[]string{"sunglasses", "glasses"}, "glasses", "accessories"},
	{[]string{"watch", "smartwatch"}, "watch", "accessories"},
	{[]string{"card", "id", "license"}, "card", "documents"},
}

var colors = []string{
	"black", "white", "red", "blue", "green", "yellow", "orange", "purple",
	"pink", "brown", "gray", "grey", "silver", "gold",
}

type locationPattern struct {
	keywords []string
	location string
}

var locationPatterns = []locationPattern{
	{[]string{"library"}, "Library"},
	{[]string{"cafeteria", "cafe", "food court"}, "Cafeteria"},
	{[]string{"student center", "center"}, "Student Center"},
	{[]string{"engineering", "eng building"}, "Engineering Building"},
	{[]string{"parking", "lot"}, "Parking Lot"},
	{[]string{"gym", "fitness"}, "Gym"},
	{[]string{"dorm", "dormitory"}, "Dormitory"},
	{[]string{"lecture", "classroom", "class"}, "Lecture Hall"},
}

const dateLayout = "2006-01-02"

// Parse extracts item, category, color, location, and date from free text.
// The date defaults to now and only "yesterday" shifts it back; the raw
// input is preserved as the description.
func Parse(text string, now time.Time) Input {
	lower := strings.ToLower(text)

	out := Input{
		Item:        "unknown item",
		Category:    "other",
		Location:    "unknown location",
		Date:        now.Format(dateLayout),
		Description: text,
	}

	for _, p := range itemPatterns {
		if containsAny(lower, p.keywords) {
			out.Item = p.item
			out.Category = p.category
			break
		}
	}

	for _, color := range colors {
		if strings.Contains(lower, color) {
			out.Color = color
			break
		}
	}

	for _, p := range locationPatterns {
		if containsAny(lower, p.keywords) {
			out.Location = p.location
			break
		}
	}

	if strings.Contains(lower, "yesterday") {
		out.Date = now.AddDate(0, 0, -1).Format(dateLayout)
	}

	return out
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// ghostSuggestions complete partial postings in the composer.
var ghostSuggestions = []string{
	"Lost black wallet in cafeteria today",
	"Found blue water bottle near library",
	"Lost iPhone in parking lot yesterday",
	"Found red backpack in student center",
	"Lost keys with Toyota keychain in gym",
}

// GhostText returns the completion of the first suggestion that starts
// with the partial input, or an empty string. Inputs shorter than three
// characters never complete.
func GhostText(partial string) string {
	if len(partial) < 3 {
		return ""
	}

	lower := strings.ToLower(partial)
	for _, s := range ghostSuggestions {
		if strings.HasPrefix(strings.ToLower(s), lower) {
			return s[len(partial):]
		}
	}
	return ""
}
