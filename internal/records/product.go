// internal/records/product.go
package records

import (
	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
)

// Product sheet headers as written on export.
const (
	ProductColumnID          = "ID"
	ProductColumnEnglishName = "English Name"
	ProductColumnArabicName  = "Arabic Name"
	ProductColumnCategory    = "Category"
	ProductColumnUnit        = "Unit"
)

var productColumns = []string{
	ProductColumnID,
	ProductColumnEnglishName,
	ProductColumnArabicName,
	ProductColumnCategory,
	ProductColumnUnit,
}

// Accepted header spellings per field, first match wins.
var (
	idAliases          = []string{ProductColumnID, "id", "Id"}
	englishNameAliases = []string{ProductColumnEnglishName, "English_Name", "englishName", "english_name"}
	arabicNameAliases  = []string{ProductColumnArabicName, "Arabic_Name", "arabicName", "arabic_name"}
	categoryAliases    = []string{ProductColumnCategory, "category"}
	unitAliases        = []string{ProductColumnUnit, "unit"}
)

// ProductMapper maps catalog rows.
type ProductMapper struct{}

func (ProductMapper) SheetName() string { return "Products" }

func (ProductMapper) Columns([]models.Product) []string {
	out := make([]string, len(productColumns))
	copy(out, productColumns)
	return out
}

func (ProductMapper) ID(p models.Product) string { return p.ID }

func (ProductMapper) ToRow(p models.Product) spreadsheet.Row {
	return spreadsheet.Row{
		ProductColumnID:          p.ID,
		ProductColumnEnglishName: p.EnglishName,
		ProductColumnArabicName:  p.ArabicName,
		ProductColumnCategory:    p.Category,
		ProductColumnUnit:        p.Unit,
	}
}

func (ProductMapper) FromRow(row spreadsheet.Row) models.Product {
	return models.Product{
		ID:          lookup(row, idAliases),
		EnglishName: lookup(row, englishNameAliases),
		ArabicName:  lookup(row, arabicNameAliases),
		Category:    lookup(row, categoryAliases),
		Unit:        lookup(row, unitAliases),
	}
}

// lookup returns the first present alias as text, or "". Values are kept
// as stored so a decoded record matches what was encoded.
func lookup(row spreadsheet.Row, aliases []string) string {
	for _, key := range aliases {
		if v, ok := row[key]; ok {
			return spreadsheet.Text(v)
		}
	}
	return ""
}
