package apitest

import "github.com/AshimStha/FloraBase-Frontend/internal/model"

// DefaultCatalog is a small slice of Canadian wildflowers in the shape the
// Trefle proxy returns.
func DefaultCatalog() []model.ExternalFlower {
	return []model.ExternalFlower{
		{ID: 263319, CommonName: "White trillium", ScientificName: "Trillium grandiflorum", Family: model.NameRef{Name: "Melanthiaceae"}, Genus: model.NameRef{Name: "Trillium"}, Year: 1803, Bibliography: "Amer. Bot. 2: 117 (1803)"},
		{ID: 182512, CommonName: "Wild columbine", ScientificName: "Aquilegia canadensis", Family: model.NameRef{Name: "Ranunculaceae"}, Genus: model.NameRef{Name: "Aquilegia"}, Year: 1753, Bibliography: "Sp. Pl.: 533 (1753)"},
		{ID: 126913, CommonName: "Bloodroot", ScientificName: "Sanguinaria canadensis", Family: model.NameRef{Name: "Papaveraceae"}, Genus: model.NameRef{Name: "Sanguinaria"}, Year: 1753},
		{ID: 175133, CommonName: "Wild lupine", ScientificName: "Lupinus perennis", Family: model.NameRef{Name: "Fabaceae"}, Genus: model.NameRef{Name: "Lupinus"}, Year: 1753},
		{ID: 149021, CommonName: "Black-eyed Susan", ScientificName: "Rudbeckia hirta", Family: model.NameRef{Name: "Asteraceae"}, Genus: model.NameRef{Name: "Rudbeckia"}, Year: 1753},
		{ID: 157554, CommonName: "Fireweed", ScientificName: "Chamaenerion angustifolium", Family: model.NameRef{Name: "Onagraceae"}, Genus: model.NameRef{Name: "Chamaenerion"}, Year: 1772},
		{ID: 190140, CommonName: "Canada lily", ScientificName: "Lilium canadense", Family: model.NameRef{Name: "Liliaceae"}, Genus: model.NameRef{Name: "Lilium"}, Year: 1753},
		{ID: 132781, CommonName: "Pink lady's slipper", ScientificName: "Cypripedium acaule", Family: model.NameRef{Name: "Orchidaceae"}, Genus: model.NameRef{Name: "Cypripedium"}, Year: 1789},
		{ID: 140225, CommonName: "Blue flag iris", ScientificName: "Iris versicolor", Family: model.NameRef{Name: "Iridaceae"}, Genus: model.NameRef{Name: "Iris"}, Year: 1753},
		{ID: 121839, CommonName: "", ScientificName: "Anemone canadensis", Family: model.NameRef{Name: "Ranunculaceae"}, Genus: model.NameRef{Name: "Anemone"}, Year: 1767},
		{ID: 166003, CommonName: "Prairie crocus", ScientificName: "Pulsatilla nuttalliana", Family: model.NameRef{Name: "Ranunculaceae"}, Genus: model.NameRef{Name: "Pulsatilla"}, Year: 1900},
		{ID: 104115, CommonName: "Swamp rose", ScientificName: "Rosa palustris", Family: model.NameRef{Name: "Rosaceae"}, Genus: model.NameRef{Name: "Rosa"}, Year: 1785},
	}
}

// listEntry is a catalog record as the list endpoint sends it: family and
// genus are bare strings there, nested {"name"} objects in the detail.
type listEntry struct {
	ID             int    `json:"id"`
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	ImageURL       string `json:"image_url"`
	Year           int    `json:"year,omitempty"`
}

func toListEntries(flowers []model.ExternalFlower) []listEntry {
	out := make([]listEntry, 0, len(flowers))
	for _, f := range flowers {
		out = append(out, listEntry{
			ID:             f.ID,
			CommonName:     f.CommonName,
			ScientificName: f.ScientificName,
			Family:         f.Family.Name,
			Genus:          f.Genus.Name,
			ImageURL:       f.ImageURL,
			Year:           f.Year,
		})
	}
	return out
}
