package model

import (
	"bytes"
	"encoding/json"
)

// ExternalFlower is a read-only record from the Trefle plant catalog,
// proxied by the backend under /flowers/trefle. The application never
// creates or mutates one.
type ExternalFlower struct {
	ID             int       `json:"id"`
	CommonName     string    `json:"common_name"`
	ScientificName string    `json:"scientific_name"`
	Slug           string    `json:"slug,omitempty"`
	Family         NameRef   `json:"family"`
	Genus          NameRef   `json:"genus"`
	ImageURL       string    `json:"image_url"`
	Year           int       `json:"year,omitempty"`
	Bibliography   string    `json:"bibliography,omitempty"`
	Observations   string    `json:"observations,omitempty"`
	Synonyms       []NameRef `json:"synonyms,omitempty"`
	Vegetable      bool      `json:"vegetable,omitempty"`
	Edible         bool      `json:"edible,omitempty"`
}

// NameRef is a nested {"name": ...} object. Trefle list payloads send the
// same fields as bare strings, so both forms decode.
type NameRef struct {
	Name string `json:"name"`
}

func (n *NameRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NameRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &n.Name)
	}
	type plain NameRef
	return json.Unmarshal(data, (*plain)(n))
}

func (n NameRef) String() string { return n.Name }

// DisplayName prefers the common name and falls back to the scientific one;
// many catalog entries have no common name.
func (f ExternalFlower) DisplayName() string {
	if f.CommonName != "" {
		return f.CommonName
	}
	return f.ScientificName
}

// CatalogPage is the envelope of GET /flowers/trefle.
type CatalogPage struct {
	Data []ExternalFlower `json:"data"`
}

// CatalogEntry is the envelope of GET /flowers/trefle/{id}.
type CatalogEntry struct {
	Data ExternalFlower `json:"data"`
}
