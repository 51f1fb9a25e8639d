// internal/models/product.go
package models

// Product is one row of the catalog spreadsheet. The catalog is replaced
// wholesale by an administrator upload; ids are not checked for uniqueness.
type Product struct {
	ID          string `json:"id"`
	EnglishName string `json:"englishName"`
	ArabicName  string `json:"arabicName"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
}

// Name returns the display name for lang, falling back to the other locale.
func (p Product) Name(lang string) string {
	if lang == "ar" && p.ArabicName != "" {
		return p.ArabicName
	}
	if p.EnglishName == "" {
		return p.ArabicName
	}
	return p.EnglishName
}

// ProductImage is one resolved image of a product.
type ProductImage struct {
	Name string    `json:"name"`
	URL  string    `json:"url"`
	Kind ImageKind `json:"kind"`
}
