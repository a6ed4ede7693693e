package match

import (
	"sort"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// Bucket groups related categories for browsing and filtering.
type Bucket struct {
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

// buckets is the fixed set of browse buckets.
var buckets = []Bucket{
	{Name: "ID & Cards", Icon: "🆔", Categories: []string{"wallet", "documents", "cards"}},
	{Name: "Keys & Access", Icon: "🔑", Categories: []string{"keys", "keychain", "access"}},
	{Name: "Electronics", Icon: "📱", Categories: []string{"phone", "laptop", "electronics", "headphones", "charger"}},
	{Name: "Bottles & Drinks", Icon: "🍼", Categories: []string{"bottle", "thermos", "cup", "mug"}},
	{Name: "Bags & Backpacks", Icon: "🎒", Categories: []string{"bag", "backpack", "purse", "luggage"}},
	{Name: "Accessories", Icon: "👜", Categories: []string{"sunglasses", "watch", "jewelry", "accessories"}},
	{Name: "Clothing", Icon: "👕", Categories: []string{"jacket", "shirt", "hat", "clothing"}},
	{Name: "Other Items", Icon: "❓", Categories: []string{"other", "misc", "unknown"}},
}

// Buckets returns the predefined buckets with counts over the given pool.
// An item counts toward a bucket if its category or any tag contains one of
// the bucket's categories, case-insensitively.
func Buckets(items []model.Item) []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)

	for i := range out {
		for _, item := range items {
			if bucketContains(out[i], item) {
				out[i].Count++
			}
		}
	}
	return out
}

func bucketContains(b Bucket, item model.Item) bool {
	category := strings.ToLower(item.Category)
	for _, c := range b.Categories {
		if strings.Contains(category, c) {
			return true
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), c) {
				return true
			}
		}
	}
	return false
}

// Tag trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// TagTrend is a tag's overall usage count plus its recent direction.
type TagTrend struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Trend string `json:"trend"`
}

// maxTrendingTags caps the trending list.
const maxTrendingTags = 12

// TrendingTags counts tag usage over the pool and marks a tag as trending
// up when a large share of its uses were posted within the last week.
func TrendingTags(items []model.Item, now time.Time) []TagTrend {
	counts := make(map[string]int)
	recent := make(map[string]int)
	weekAgo := now.AddDate(0, 0, -7)

	var order []string
	for _, item := range items {
		for _, tag := range item.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
			if item.CreatedAt.After(weekAgo) {
				recent[tag]++
			}
		}
	}

	out := make([]TagTrend, 0, len(order))
	for _, name := range order {
		count := counts[name]
		trend := TrendStable
		switch r := float64(recent[name]); {
		case r > float64(count)*0.3:
			trend = TrendUp
		case r < float64(count)*0.1:
			trend = TrendDown
		}
		out = append(out, TagTrend{Name: name, Count: count, Trend: trend})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxTrendingTags {
		out = out[:maxTrendingTags]
	}
	return out
}
