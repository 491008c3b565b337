package catalog

// DefaultColorLabel is shown when neither the product specifications nor a
// variant carry a color name.
const DefaultColorLabel = "Natural"

// Variant is one color/fabric option of a product.
type Variant struct {
	ID        string   `json:"id"`
	Color     string   `json:"color"`
	ColorCode string   `json:"color_code,omitempty"`
	Images    []string `json:"images,omitempty"`
	Quantity  int      `json:"quantity"`
	// Price overrides the product base price when set.
	Price *float64 `json:"price,omitempty"`
}

// Specifications carries the display attributes of the base product.
type Specifications struct {
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
	Size     string `json:"size,omitempty"`
}

// Product mirrors the upstream product record. The storefront never mutates
// it; cart lines freeze a copy at add time.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	Images         []string       `json:"images,omitempty"`
	Quantity       int            `json:"quantity"`
	Unit           string         `json:"unit,omitempty"`
	Category       string         `json:"category,omitempty"`
	Specifications Specifications `json:"specifications"`
	Variants       []Variant      `json:"variants,omitempty"`
}

// BaseImage returns the first product image, or empty when none exist.
func (p Product) BaseImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// VariantSelection says which variant of a product is selected, if any.
// It replaces the upstream convention of passing -1 for "no selection":
// a selection is either absent or a concrete index, never a magic integer.
type VariantSelection struct {
	index    int
	selected bool
}

// NoVariant is the absent selection; display falls back to base attributes.
func NoVariant() VariantSelection {
	return VariantSelection{}
}

// VariantAt selects the variant at the given index. Negative indices decode
// to the absent selection so upstream payloads using -1 keep their meaning.
func VariantAt(index int) VariantSelection {
	if index < 0 {
		return NoVariant()
	}
	return VariantSelection{index: index, selected: true}
}

// SelectionFromIndex converts a wire-level optional index (nil or negative
// means unselected) into a VariantSelection.
func SelectionFromIndex(index *int) VariantSelection {
	if index == nil {
		return NoVariant()
	}
	return VariantAt(*index)
}

// Index returns the selected index and whether a variant is selected.
func (s VariantSelection) Index() (int, bool) {
	if !s.selected {
		return 0, false
	}
	return s.index, true
}

// IndexPtr returns the wire-level optional index form of the selection.
func (s VariantSelection) IndexPtr() *int {
	if !s.selected {
		return nil
	}
	index := s.index
	return &index
}

// Display is the resolved presentation of a (product, selection) pair.
type Display struct {
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Color string  `json:"color"`
	Stock int     `json:"stock"`
}

// ResolveDisplay resolves price, image, color and stock for the selection.
// Any selection that does not point at an existing variant degrades to the
// product's base attributes; it never fails.
func ResolveDisplay(p Product, sel VariantSelection) Display {
	base := Display{
		Price: p.Price,
		Image: p.BaseImage(),
		Color: p.Specifications.Color,
		Stock: p.Quantity,
	}
	if base.Color == "" {
		base.Color = DefaultColorLabel
	}

	index, ok := sel.Index()
	if !ok || index >= len(p.Variants) {
		return base
	}

	variant := p.Variants[index]
	resolved := Display{
		Price: base.Price,
		Image: base.Image,
		Color: variant.Color,
		Stock: variant.Quantity,
	}
	if variant.Price != nil {
		resolved.Price = *variant.Price
	}
	if len(variant.Images) > 0 {
		resolved.Image = variant.Images[0]
	}
	if resolved.Color == "" {
		resolved.Color = base.Color
	}
	return resolved
}
