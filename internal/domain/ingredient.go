package domain

import (
	"sort"
	"strings"
)

// Ingredient is a catalog entry. Public entries have an empty Owner.
type Ingredient struct {
	ID       int
	Title    string
	Unit     string
	Category string
	Owner    string

	// Deletable is only meaningful for the owner's private entries: false
	// when a stored step still references the ingredient.
	Deletable bool
}

// NewIngredient is a user-authored ingredient that has not been persisted.
type NewIngredient struct {
	Title    string
	Unit     string
	Category string
}

// Catalog is the set of ingredients known to an authoring session.
type Catalog struct {
	byID map[int]Ingredient
}

// NewCatalog builds a catalog from a list of ingredients.
func NewCatalog(items []Ingredient) *Catalog {
	c := &Catalog{byID: make(map[int]Ingredient, len(items))}
	c.Merge(items)
	return c
}

// Merge adds or replaces entries by ID.
func (c *Catalog) Merge(items []Ingredient) {
	if c.byID == nil {
		c.byID = make(map[int]Ingredient, len(items))
	}
	for _, it := range items {
		c.byID[it.ID] = it
	}
}

// Has reports whether id resolves in the catalog.
func (c *Catalog) Has(id int) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Get returns the entry with the given id.
func (c *Catalog) Get(id int) (Ingredient, bool) {
	if c == nil {
		return Ingredient{}, false
	}
	it, ok := c.byID[id]
	return it, ok
}

// Remove drops an entry.
func (c *Catalog) Remove(id int) {
	if c != nil {
		delete(c.byID, id)
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// All returns the entries sorted by title, then id.
func (c *Catalog) All() []Ingredient {
	if c == nil {
		return nil
	}
	out := make([]Ingredient, 0, len(c.byID))
	for _, it := range c.byID {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByTitle looks an entry up by title, ignoring case and surrounding
// space. A private entry wins over a public one with the same title.
func (c *Catalog) FindByTitle(title string) (Ingredient, bool) {
	title = strings.TrimSpace(title)
	var (
		best  Ingredient
		found bool
	)
	for _, it := range c.All() {
		if !strings.EqualFold(it.Title, title) {
			continue
		}
		if !found || (best.Owner == "" && it.Owner != "") {
			best, found = it, true
		}
	}
	return best, found
}
