package catalog

import "strings"

// Collection groups products sharing a tag. Gumroad has no collections of
// its own.
type Collection struct {
	Handle      string
	Title       string
	Description string
	Products    []Product
}

func tagHandle(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), "-")
}

// Collections returns one collection per distinct tag of products, in order
// of first appearance. Products are not filled in.
func Collections(products []Product) []Collection {
	seen := make(map[string]struct{})
	var out []Collection
	for _, p := range products {
		for _, tag := range p.Tags {
			tag = strings.TrimSpace(tag)
			h := tagHandle(tag)
			if h == "" {
				continue
			}
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, Collection{
				Handle:      h,
				Title:       tag,
				Description: "Products tagged with " + tag,
			})
		}
	}
	return out
}

// CollectionByHandle returns the collection of products whose tags contain
// the tag named by handle, matched case-insensitively.
func CollectionByHandle(products []Product, handle string) Collection {
	name := strings.ReplaceAll(handle, "-", " ")
	needle := strings.ToLower(name)

	c := Collection{
		Handle:      handle,
		Title:       capitalize(name),
		Description: "Products tagged with " + name,
		Products:    []Product{},
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(strings.Join(p.Tags, ",")), needle) {
			c.Products = append(c.Products, p)
		}
	}
	return c
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
