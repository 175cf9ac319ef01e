package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxImageBytes caps embedded data-URI images.
const MaxImageBytes = 2 * 1024 * 1024

type Project struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Category    Category    `json:"category" yaml:"category"`
	Subcategory SubCategory `json:"subcategory" yaml:"subcategory"`
	Description string      `json:"description" yaml:"description"`
	ImageURL    string      `json:"imageUrl" yaml:"imageUrl"`
	Link        string      `json:"link,omitempty" yaml:"link,omitempty"`
	CreatedAt   int64       `json:"createdAt" yaml:"createdAt"`
}

// ProjectForm is the admin create/edit payload.
type ProjectForm struct {
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Subcategory SubCategory `json:"subcategory"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Link        string      `json:"link"`
}

func (f *ProjectForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(f.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if err := ValidateClassification(f.Category, f.Subcategory); err != nil {
		return err
	}
	if n, ok := dataURISize(f.ImageURL); ok && n > MaxImageBytes {
		return &ValidationError{
			Field:   "imageUrl",
			Message: "Image size is too large. Please select a file smaller than 2MB.",
		}
	}
	return nil
}

// dataURISize returns the decoded size of a base64 data URI.
func dataURISize(s string) (int, bool) {
	if !strings.HasPrefix(s, "data:") {
		return 0, false
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 || !strings.Contains(s[:comma], ";base64") {
		return len(s), true
	}
	return base64.StdEncoding.DecodedLen(len(s) - comma - 1), true
}

// DefaultImageURL is the placeholder used when a project has no image.
func DefaultImageURL(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/600", seed)
}

// ProjectFilter selects portfolio entries; zero values match everything.
type ProjectFilter struct {
	Category    Category
	Subcategory SubCategory
	Query       string
}

func (f ProjectFilter) Match(p Project) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
