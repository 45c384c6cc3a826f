package exiftags

import (
	"fmt"
	"slices"
)

// Field is one named tag inside a category
type Field struct {
	Name string
	Tag  uint16
}

// Category groups related tags under a display name.
// Field order is display order.
type Category struct {
	Name   string
	Fields []Field
}

// Catalog is an immutable, ordered registry of categories.
// The same tag id may appear in more than one category.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// New builds a catalog from categories in the given order.
// Category names must be unique, and field names must be unique within a category.
func New(categories ...Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category name must not be empty")
		}
		if _, exists := c.index[cat.Name]; exists {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}

		seen := make(map[string]bool, len(cat.Fields))
		for _, f := range cat.Fields {
			if seen[f.Name] {
				return nil, fmt.Errorf("duplicate field %q in category %q", f.Name, cat.Name)
			}
			seen[f.Name] = true
		}

		c.index[cat.Name] = len(c.categories)
		c.categories = append(c.categories, Category{
			Name:   cat.Name,
			Fields: slices.Clone(cat.Fields),
		})
	}

	return c, nil
}

// MustNew is like New but panics on an invalid definition
func MustNew(categories ...Category) *Catalog {
	c, err := New(categories...)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns the category names in catalog order
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// FieldsOf returns the ordered fields of a category, or nil if the category is unknown
func (c *Catalog) FieldsOf(category string) []Field {
	i, ok := c.index[category]
	if !ok {
		return nil
	}
	return slices.Clone(c.categories[i].Fields)
}

// Len returns the number of categories
func (c *Catalog) Len() int {
	return len(c.categories)
}
