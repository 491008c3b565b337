package cart

import (
	"strconv"

	"github.com/tanvicrafts/storefront-backend/internal/catalog"
)

// Line is one cart entry: a frozen product snapshot plus quantity and the
// selected variant. Distinct variants of the same product are distinct lines.
type Line struct {
	ID string `json:"id"`
	// Product is the snapshot taken at add time; it is never re-fetched.
	Product      catalog.Product `json:"product"`
	Quantity     int             `json:"quantity"`
	VariantIndex *int            `json:"variant_index,omitempty"`
	ColorLabel   string          `json:"color_label,omitempty"`
}

// LineID builds the composite identity for a (product, selection) pair:
// the product id alone, or product id plus variant index.
func LineID(productID string, sel catalog.VariantSelection) string {
	if index, ok := sel.Index(); ok {
		return productID + ":" + strconv.Itoa(index)
	}
	return productID
}

// Selection returns the line's variant selection.
func (l Line) Selection() catalog.VariantSelection {
	return catalog.SelectionFromIndex(l.VariantIndex)
}

// Display resolves the line's effective price, image, color and stock.
func (l Line) Display() catalog.Display {
	return catalog.ResolveDisplay(l.Product, l.Selection())
}
