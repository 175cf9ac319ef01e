package models

import "fmt"

type Category string

type SubCategory string

const (
	CategoryBanner       Category = "Banner"
	CategoryPoster       Category = "Poster"
	CategoryVisitingCard Category = "Visiting Card"
	CategoryThumbnail    Category = "Thumbnail"
	CategorySocialMedia  Category = "Social Media"
)

// CategoryGroup is one category together with the subcategories it allows.
type CategoryGroup struct {
	Category      Category      `json:"category"`
	Subcategories []SubCategory `json:"subcategories"`
}

// taxonomy is static configuration; its order is the display order.
var taxonomy = []CategoryGroup{
	{CategoryBanner, []SubCategory{"Website Banner", "Event Banner", "Promotional Banner"}},
	{CategoryPoster, []SubCategory{"Event Poster", "Product Poster", "Advertising Poster"}},
	{CategoryVisitingCard, []SubCategory{"Company Card", "Personal Card", "Branding Card"}},
	{CategoryThumbnail, []SubCategory{"YouTube Thumbnail", "Product Thumbnail"}},
	{CategorySocialMedia, []SubCategory{"Facebook Post", "Facebook Cover", "Instagram Post", "Instagram Story", "Twitter Post", "LinkedIn Post"}},
}

// Categories returns a copy of the taxonomy in display order.
func Categories() []CategoryGroup {
	out := make([]CategoryGroup, len(taxonomy))
	for i, g := range taxonomy {
		out[i] = CategoryGroup{
			Category:      g.Category,
			Subcategories: append([]SubCategory(nil), g.Subcategories...),
		}
	}
	return out
}

// SubcategoriesOf reports the subcategories allowed for cat and whether cat exists.
func SubcategoriesOf(cat Category) ([]SubCategory, bool) {
	for _, g := range taxonomy {
		if g.Category == cat {
			return append([]SubCategory(nil), g.Subcategories...), true
		}
	}
	return nil, false
}

// ValidateClassification checks that sub belongs to cat.
func ValidateClassification(cat Category, sub SubCategory) error {
	if cat == "" || sub == "" {
		return &ValidationError{Field: "category", Message: "Please select both category and subcategory."}
	}
	subs, ok := SubcategoriesOf(cat)
	if !ok {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", cat)}
	}
	for _, s := range subs {
		if s == sub {
			return nil
		}
	}
	return &ValidationError{
		Field:   "subcategory",
		Message: fmt.Sprintf("subcategory %q does not belong to category %q", sub, cat),
	}
}

// ProjectType renders the order project type label, e.g. "Poster - Event Poster".
func ProjectType(cat Category, sub SubCategory) string {
	return fmt.Sprintf("%s - %s", cat, sub)
}
