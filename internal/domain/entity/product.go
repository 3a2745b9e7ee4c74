package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category categoría del catálogo (vocabulario fijo).
type Category string

const (
	CategoryJellies         Category = "Jellies"
	CategoryCustards        Category = "Custards"
	CategoryFoodEssences    Category = "Food essences"
	CategoryCakeIngredients Category = "Cake ingredients"
	CategoryColorsFlavors   Category = "Artificial colors and flavors"
)

// Categories lista ordenada de categorías válidas.
var Categories = []Category{
	CategoryJellies,
	CategoryCustards,
	CategoryFoodEssences,
	CategoryCakeIngredients,
	CategoryColorsFlavors,
}

// Valid indica si la categoría pertenece al vocabulario.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Unit unidad del descriptor de cantidad.
type Unit string

const (
	UnitML  Unit = "ml"
	UnitG   Unit = "g"
	UnitKG  Unit = "kg"
	UnitL   Unit = "l"
	UnitPCS Unit = "pcs"
)

// Valid indica si la unidad es una de ml, g, kg, l, pcs.
func (u Unit) Valid() bool {
	switch u {
	case UnitML, UnitG, UnitKG, UnitL, UnitPCS:
		return true
	}
	return false
}

// MaxProductNameLength longitud máxima del nombre de producto.
const MaxProductNameLength = 100

// Quantity descriptor de presentación (ej. 500 ml).
type Quantity struct {
	Value decimal.Decimal
	Unit  Unit
}

// ProductImage referencia a una imagen (ruta relativa o URL absoluta).
type ProductImage struct {
	ID       string
	URL      string
	Position int
}

// Review reseña de un usuario sobre un producto. Una por (producto, usuario).
type Review struct {
	ID        string
	ProductID string
	UserID    string // vacío si el usuario fue eliminado
	UserName  string
	Rating    decimal.Decimal
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product producto del catálogo. Ratings y NumOfReviews son derivados de Reviews.
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Description  string
	Category     Category
	Seller       string
	Stock        int
	Quantity     Quantity
	Images       []ProductImage
	Ratings      decimal.Decimal
	NumOfReviews int
	Reviews      []Review
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FirstImage devuelve la primera imagen o "" si no tiene.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// InStock indica si queda al menos una unidad.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// RecomputeRatings calcula la media aritmética y el conteo de reseñas.
// Sin reseñas la media es 0. La media no se redondea.
func RecomputeRatings(reviews []Review) (decimal.Decimal, int) {
	if len(reviews) == 0 {
		return decimal.Zero, 0
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(r.Rating)
	}
	n := len(reviews)
	return sum.Div(decimal.NewFromInt(int64(n))), n
}

// UpsertReview reemplaza la reseña del mismo usuario o la agrega al final.
// Devuelve la lista resultante y si hubo reemplazo.
func UpsertReview(reviews []Review, r Review) ([]Review, bool) {
	out := make([]Review, 0, len(reviews)+1)
	replaced := false
	for _, existing := range reviews {
		if !replaced && existing.UserID != "" && existing.UserID == r.UserID {
			r.ID = existing.ID
			r.CreatedAt = existing.CreatedAt
			out = append(out, r)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, r)
	}
	return out, replaced
}

// RemoveReview quita la reseña con id reviewID. ok=false si no existía.
func RemoveReview(reviews []Review, reviewID string) ([]Review, bool) {
	out := make([]Review, 0, len(reviews))
	found := false
	for _, r := range reviews {
		if r.ID == reviewID {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}
