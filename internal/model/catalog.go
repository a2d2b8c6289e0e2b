package model

import "sort"

// Catalog is the fixed, ordered set of distinct item identifiers that
// defines matrix column order. It is built once per run and never mutated;
// every downstream stage must align rows to exactly this ordering.
type Catalog struct {
	items []string
	index map[string]int
}

// NewCatalog builds a catalog from item ids, deduplicating and sorting
// lexicographically so column order is deterministic across runs.
func NewCatalog(items []string) *Catalog {
	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		unique = append(unique, item)
	}
	sort.Strings(unique)

	index := make(map[string]int, len(unique))
	for i, item := range unique {
		index[item] = i
	}

	return &Catalog{items: unique, index: index}
}

// Items returns the catalog's item ids in column order. Callers must not
// modify the returned slice.
func (c *Catalog) Items() []string {
	return c.items
}

// Len returns the number of items, which is the matrix column count.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Index returns the column position of an item id.
func (c *Catalog) Index(item string) (int, bool) {
	i, ok := c.index[item]
	return i, ok
}
