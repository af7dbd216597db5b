package domain

// Brands lists the brands offered by the filter and listing forms, in display order.
var Brands = []string{"Toyota", "Audi", "Bmw"}

var brandModels = map[string][]string{
	"Toyota": {"Corolla", "Camry", "RAV4", "Yaris", "Prius", "Land Cruiser"},
	"Audi":   {"A3", "A4", "A6", "Q3", "Q5", "Q7"},
	"Bmw":    {"1 Series", "3 Series", "5 Series", "X1", "X3", "X5"},
}

// ModelsFor returns the models of a brand. Unknown or empty brands yield an
// empty list. The returned slice is a copy.
func ModelsFor(brand string) []string {
	models := brandModels[brand]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// HasModel reports whether model belongs to brand in the static table.
func HasModel(brand, model string) bool {
	for _, m := range brandModels[brand] {
		if m == model {
			return true
		}
	}
	return false
}

// IsKnownBrand reports whether brand is in the static table.
func IsKnownBrand(brand string) bool {
	_, ok := brandModels[brand]
	return ok
}
