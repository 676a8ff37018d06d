package weather

import "strings"

// Category is the weather-condition label produced by the classifier.
// Only the fixed vocabulary below is recognised; anything else is CategoryUnknown.
type Category string

const (
	CategorySunny        Category = "sunny"
	CategoryPartlyCloudy Category = "partly_cloudy"
	CategoryCloudy       Category = "cloudy"
	CategoryDrizzly      Category = "drizzly"
	CategoryRainy        Category = "rainy"
	CategoryFoggy        Category = "foggy"
	CategorySnowy        Category = "snowy"
	CategoryUnknown      Category = "unknown"
)

var knownCategories = map[Category]struct{}{
	CategorySunny:        {},
	CategoryPartlyCloudy: {},
	CategoryCloudy:       {},
	CategoryDrizzly:      {},
	CategoryRainy:        {},
	CategoryFoggy:        {},
	CategorySnowy:        {},
}

// ParseCategory normalises a free-text label (case-insensitive, surrounding
// whitespace ignored). Unseen labels map to CategoryUnknown.
func ParseCategory(label string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return CategoryUnknown
}

// IsWet reports whether the category belongs to the rain family.
func (c Category) IsWet() bool {
	return c == CategoryRainy || c == CategoryDrizzly
}

// Categories returns the recognised vocabulary in penalty order.
func Categories() []Category {
	return []Category{
		CategorySunny,
		CategoryPartlyCloudy,
		CategoryCloudy,
		CategoryDrizzly,
		CategoryRainy,
		CategoryFoggy,
		CategorySnowy,
	}
}
