package carbon

import "sort"

// Factors holds kg of CO2 emitted per kg of wasted food.
var Factors = map[string]float64{
	"beef":       27.0,
	"lamb":       39.2,
	"cheese":     13.5,
	"pork":       12.1,
	"poultry":    6.9,
	"eggs":       4.8,
	"rice":       2.7,
	"milk":       1.9,
	"bread":      1.4,
	"vegetables": 0.4,
	"fruits":     0.5,
	"potatoes":   0.3,
	"nuts":       2.3,
	"beans":      0.8,
	"tofu":       2.0,
	"fish":       5.4,
	"other":      3.0,
}

// FoodTypes returns the known food types in alphabetical order.
func FoodTypes() []string {
	out := make([]string, 0, len(Factors))
	for k := range Factors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
