// Package audiopack maps catalog products to the audio previews bundled
// with the storefront.
package audiopack

import (
	"path"
	"regexp"
	"strings"
)

// File is one preview file of a pack.
type File struct {
	Name     string // display name
	Path     string // URL path under the static audio root
	Filename string
}

// Pack is the set of previews of one product.
type Pack struct {
	ID          string
	Name        string
	Slug        string
	Description string
	FolderPath  string
	ProductID   string
	Files       []File
}

// NewPack builds a pack whose files live under folder.
func NewPack(id, name, slug, description, folder, productID string, filenames ...string) Pack {
	files := make([]File, len(filenames))
	for i, fn := range filenames {
		files[i] = File{
			Name:     DisplayName(fn),
			Path:     folder + "/" + fn,
			Filename: fn,
		}
	}
	return Pack{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Description: description,
		FolderPath:  folder,
		ProductID:   productID,
		Files:       files,
	}
}

var (
	audioExt   = regexp.MustCompile(`(?i)\.(mp3|wav|flac|aiff|m4a)$`)
	separators = regexp.MustCompile(`[_\-\s]+`)
)

// DisplayName turns a preview filename into a title: the audio extension
// is dropped and runs of underscores, hyphens and spaces become one space.
func DisplayName(filename string) string {
	name := audioExt.ReplaceAllString(path.Base(filename), "")
	return strings.TrimSpace(separators.ReplaceAllString(name, " "))
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// TitleSlug derives a product page slug from a title. Unlike catalog.Slug,
// punctuation is removed rather than turned into a separator, so existing
// product page URLs keep resolving.
func TitleSlug(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Registry looks up packs and product page slugs.
type Registry struct {
	packs  []Pack
	static map[string]string // slug -> product id
}

// NewRegistry creates a Registry over packs. static maps slugs of products
// without a pack to their product ids.
func NewRegistry(packs []Pack, static map[string]string) *Registry {
	return &Registry{packs: packs, static: static}
}

// Default returns the registry of the bundled packs.
func Default() *Registry {
	return NewRegistry(builtin, staticProducts)
}

// All returns every pack.
func (r *Registry) All() []Pack {
	return r.packs
}

func (r *Registry) find(match func(Pack) bool) (Pack, bool) {
	for _, p := range r.packs {
		if match(p) {
			return p, true
		}
	}
	return Pack{}, false
}

// ByID returns the pack with the given id.
func (r *Registry) ByID(id string) (Pack, bool) {
	return r.find(func(p Pack) bool { return p.ID == id })
}

// ByName returns the pack with the given name, ignoring case.
func (r *Registry) ByName(name string) (Pack, bool) {
	return r.find(func(p Pack) bool { return strings.EqualFold(p.Name, name) })
}

// ByProductID returns the pack of a catalog product.
func (r *Registry) ByProductID(productID string) (Pack, bool) {
	return r.find(func(p Pack) bool { return p.ProductID == productID })
}

// BySlug returns the pack with the given slug.
func (r *Registry) BySlug(slug string) (Pack, bool) {
	return r.find(func(p Pack) bool { return p.Slug == slug })
}

// ProductIDBySlug resolves a product page slug to a product id.
func (r *Registry) ProductIDBySlug(slug string) (string, bool) {
	if p, ok := r.BySlug(slug); ok && p.ProductID != "" {
		return p.ProductID, true
	}
	id, ok := r.static[slug]
	return id, ok
}

// SlugByProductID returns the known page slug of a product.
func (r *Registry) SlugByProductID(productID string) (string, bool) {
	if p, ok := r.ByProductID(productID); ok && p.Slug != "" {
		return p.Slug, true
	}
	for slug, id := range r.static {
		if id == productID {
			return slug, true
		}
	}
	return "", false
}

// ProductPath returns the storefront page path of a product.
func (r *Registry) ProductPath(productID, title string) string {
	if slug, ok := r.SlugByProductID(productID); ok {
		return "/products/" + slug
	}
	if title != "" {
		if slug := TitleSlug(title); slug != "" {
			return "/products/" + slug
		}
	}
	return "/products/" + productID
}
