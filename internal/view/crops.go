package view

// CropOption is one selectable crop.
type CropOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CropGroup is a labelled group of crops.
type CropGroup struct {
	Category string       `json:"category"`
	Label    string       `json:"label"`
	Crops    []CropOption `json:"crops"`
}

var cropCatalogue = []CropGroup{
	{Category: "Grains", Crops: []CropOption{
		{"wheat", "🌾 Wheat"},
		{"rice", "🌾 Rice"},
		{"maize", "🌽 Maize"},
		{"soybean", "🫘 Soybean"},
		{"sunflower", "🌻 Sunflower"},
	}},
	{Category: "Vegetables", Crops: []CropOption{
		{"potato", "🥔 Potato"},
		{"onion", "🧅 Onion"},
		{"tomato", "🍅 Tomato"},
		{"brinjal", "🍆 Brinjal"},
		{"cucumber", "🥒 Cucumber"},
	}},
	{Category: "Fruits", Crops: []CropOption{
		{"banana", "🍌 Banana"},
		{"orange", "🍊 Orange"},
		{"mango", "🥭 Mango"},
		{"apple", "🍎 Apple"},
		{"grapes", "🍇 Grapes"},
	}},
}

// CropSelector returns the crop catalogue grouped by category.
func CropSelector() []CropGroup {
	out := make([]CropGroup, len(cropCatalogue))
	for i, g := range cropCatalogue {
		out[i] = CropGroup{
			Category: g.Category,
			Label:    "🌱 " + g.Category,
			Crops:    append([]CropOption(nil), g.Crops...),
		}
	}
	return out
}

// KnownCrop reports whether value is in the catalogue.
func KnownCrop(value string) bool {
	for _, g := range cropCatalogue {
		for _, c := range g.Crops {
			if c.Value == value {
				return true
			}
		}
	}
	return false
}
