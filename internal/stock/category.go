package stock

import "strings"

// Category is the display bucket finished goods are grouped under on the
// inventory page.
type Category string

const (
	CategoryGallons  Category = "Gallons"
	CategoryCaps     Category = "Caps"
	CategoryPreforms Category = "Preforms"
	CategoryOther    Category = "Other"
)

// categoryOrder is the fixed presentation order of the buckets.
var categoryOrder = []Category{CategoryGallons, CategoryCaps, CategoryPreforms, CategoryOther}

// DeriveCategory maps a product name to its display bucket. The string rules
// are plant naming conventions, applied case-insensitively: anything
// mentioning a gallon is a gallon product, otherwise the caps and preform
// lines are recognised by their name prefix.
func DeriveCategory(name string) Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "gallon"):
		return CategoryGallons
	case strings.HasPrefix(n, "caps"):
		return CategoryCaps
	case strings.HasPrefix(n, "preform"):
		return CategoryPreforms
	default:
		return CategoryOther
	}
}

// CategoryGroup is one collapsible section of the grouped inventory view.
type CategoryGroup struct {
	Category      Category
	Items         []Row
	Count         int
	TotalQuantity float64
}

// GroupByCategory buckets rows into the fixed category sequence. Empty
// buckets are dropped so the page never renders a hollow section.
func GroupByCategory(rows []Row) []CategoryGroup {
	byCat := map[Category][]Row{}
	for _, row := range rows {
		cat := DeriveCategory(row.Name)
		byCat[cat] = append(byCat[cat], row)
	}

	groups := make([]CategoryGroup, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		items := byCat[cat]
		if len(items) == 0 {
			continue
		}
		var total float64
		for _, it := range items {
			total += it.Quantity
		}
		groups = append(groups, CategoryGroup{
			Category:      cat,
			Items:         items,
			Count:         len(items),
			TotalQuantity: total,
		})
	}
	return groups
}
