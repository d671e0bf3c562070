package standard

// FabricStandard is a fabric composition and the maximum ambient humidity
// percentage it may carry.
type FabricStandard struct {
	Label string  `json:"label" yaml:"label"`
	Limit float64 `json:"limit" yaml:"limit"`
}

// Defaults are the standards published for garment production.
var Defaults = []FabricStandard{
	{Label: "100% Cotton", Limit: 56},
	{Label: "90% Cotton 10% Elastane/Spandex (Cotton content 85% - 99%)", Limit: 56},
	{Label: "70% Cotton 30% Polyamide (Cotton content 65% - 75%)", Limit: 59},
	{Label: "80% Cotton 20% Polyester (Cotton content 75%-85%)", Limit: 59},
	{Label: "70% Cotton 30% Polyester (Cotton content 65% - 75%)", Limit: 53},
	{Label: "60% Cotton 40% Polyester (Cotton content 55% - 65%)", Limit: 45},
	{Label: "50% Cotton 50% Polyester (Cotton content 45% - 55%)", Limit: 37},
	{Label: "50% Cotton 50% Polyacrylic (Cotton content 45% - 55%)", Limit: 62},
	{Label: "100% Viscose/ Rayon/ Modal", Limit: 59},
	{Label: "100% Linen/ Flax", Limit: 67},
	{Label: "100% Polyester", Limit: 57},
	{Label: "100% Leather", Limit: 22},
	{Label: "Packing paper, packaging carton boxes and corrugated export cartons", Limit: 10},
}
