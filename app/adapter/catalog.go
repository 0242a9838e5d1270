package adapter

// CatalogItem is a node of the catalog tree.
type CatalogItem struct {
	// QualifiedIdentifier is globally unique within the tree, e.g. "db"."rel"."col".
	QualifiedIdentifier string `json:"id"`
	// QueryName is the text inserted into the editor when the node is picked.
	QueryName string         `json:"queryName"`
	Label     string         `json:"label"`
	TypeLabel string         `json:"typeLabel"`
	Children  []*CatalogItem `json:"children"`
}

// Catalog is an immutable snapshot of server metadata.
type Catalog struct {
	Items []*CatalogItem `json:"items"`
}

// Walk visits every node depth-first, passing the node depth starting from zero.
// Returning false from fn skips the node's children.
func (c *Catalog) Walk(fn func(item *CatalogItem, depth int) bool) {
	for _, item := range c.Items {
		walk(item, 0, fn)
	}
}

func walk(item *CatalogItem, depth int, fn func(item *CatalogItem, depth int) bool) {
	if !fn(item, depth) {
		return
	}

	for _, child := range item.Children {
		walk(child, depth+1, fn)
	}
}
