package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designhub-backend/internal/models"
)

func TestValidateClassification_EveryCategoryRejectsForeignSubcategories(t *testing.T) {
	groups := models.Categories()
	require.Len(t, groups, 5)

	for _, g := range groups {
		for _, sub := range g.Subcategories {
			assert.NoError(t, models.ValidateClassification(g.Category, sub))
		}
		for _, other := range groups {
			if other.Category == g.Category {
				continue
			}
			for _, sub := range other.Subcategories {
				err := models.ValidateClassification(g.Category, sub)
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr, "%s / %s", g.Category, sub)
				assert.Equal(t, "subcategory", verr.Field)
			}
		}
	}
}

func TestValidateClassification_Missing(t *testing.T) {
	err := models.ValidateClassification("", "Event Poster")
	assert.EqualError(t, err, "Please select both category and subcategory.")

	err = models.ValidateClassification("Sculpture", "Bust")
	assert.Error(t, err)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	groups := models.Categories()
	groups[0].Subcategories[0] = "Mutated"

	subs, ok := models.SubcategoriesOf(models.CategoryBanner)
	require.True(t, ok)
	assert.Equal(t, models.SubCategory("Website Banner"), subs[0])
}

func TestProjectType(t *testing.T) {
	assert.Equal(t, "Poster - Event Poster", models.ProjectType("Poster", "Event Poster"))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "In Progress", "Completed"} {
		st, err := models.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}

	_, err := models.ParseStatus("in progress")
	assert.Error(t, err)
	_, err = models.ParseStatus("Cancelled")
	assert.Error(t, err)
}

func TestSortOrdersNewestFirst(t *testing.T) {
	orders := []models.Order{
		{ID: "a", CreatedAt: 10},
		{ID: "b", CreatedAt: 30},
		{ID: "c", CreatedAt: 20},
		{ID: "d", CreatedAt: 30},
	}
	models.SortOrdersNewestFirst(orders)

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)
}

func TestOrderForm_Validate(t *testing.T) {
	valid := models.OrderForm{
		Name:        "Rahim",
		Email:       "rahim@example.com",
		WhatsApp:    "+8801700000000",
		Category:    "Poster",
		Subcategory: "Event Poster",
		Details:     "Concert poster",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(f *models.OrderForm)
		field string
	}{
		{"missing name", func(f *models.OrderForm) { f.Name = "  " }, "name"},
		{"missing whatsapp", func(f *models.OrderForm) { f.WhatsApp = "" }, "whatsapp"},
		{"missing details", func(f *models.OrderForm) { f.Details = "" }, "details"},
		{"bad email", func(f *models.OrderForm) { f.Email = "rahim.example.com" }, "email"},
		{"wrong subcategory", func(f *models.OrderForm) { f.Subcategory = "Company Card" }, "subcategory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			var verr *models.ValidationError
			require.ErrorAs(t, f.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProjectForm_Validate_ImageTooLarge(t *testing.T) {
	f := models.ProjectForm{
		Name:        "Big",
		Category:    "Banner",
		Subcategory: "Event Banner",
		Description: "Huge image",
		ImageURL:    "data:image/png;base64," + strings.Repeat("A", 3*1024*1024),
	}
	var verr *models.ValidationError
	require.ErrorAs(t, f.Validate(), &verr)
	assert.Equal(t, "imageUrl", verr.Field)

	f.ImageURL = "data:image/png;base64," + strings.Repeat("A", 1024)
	assert.NoError(t, f.Validate())
}

func TestProjectFilter_Match(t *testing.T) {
	p := models.Project{
		Name:        "Elite Music Festival",
		Category:    "Poster",
		Subcategory: "Event Poster",
		Description: "Vibrant poster for festivals.",
	}

	assert.True(t, models.ProjectFilter{}.Match(p))
	assert.True(t, models.ProjectFilter{Category: "Poster"}.Match(p))
	assert.False(t, models.ProjectFilter{Category: "Banner"}.Match(p))
	assert.False(t, models.ProjectFilter{Category: "Poster", Subcategory: "Product Poster"}.Match(p))
	assert.True(t, models.ProjectFilter{Query: "MUSIC"}.Match(p))
	assert.True(t, models.ProjectFilter{Query: "vibrant"}.Match(p))
	assert.False(t, models.ProjectFilter{Query: "banner"}.Match(p))
}
