package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlowerPost is a user-authored flora entry stored by the FloraBase backend.
// It is a different shape from ExternalFlower and the two are never merged.
type FlowerPost struct {
	ID             string    `json:"_id,omitempty"`
	CommonName     string    `json:"common_name"`
	ScientificName string    `json:"scientific_name"`
	Family         string    `json:"family"`
	Genus          string    `json:"genus"`
	Observations   string    `json:"observations,omitempty"`
	Bibliography   string    `json:"bibliography,omitempty"`
	Synonyms       []string  `json:"synonyms"`
	Varieties      []Variety `json:"varieties"`
	Vegetable      bool      `json:"vegetable"`
	Edible         bool      `json:"edible"`
	ImageURL       string    `json:"image_url,omitempty"`
	Location       string    `json:"location,omitempty"` // "lat,lng"
}

func (p *FlowerPost) UnmarshalJSON(data []byte) error {
	type plain FlowerPost
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.AltID
	}
	return nil
}

// Variety is one named variety of a flower.
type Variety struct {
	ScientificName string `json:"scientific_name"`
}

// VarietyNames flattens Varieties for display and for edit forms.
func (p FlowerPost) VarietyNames() []string {
	names := make([]string, 0, len(p.Varieties))
	for _, v := range p.Varieties {
		names = append(names, v.ScientificName)
	}
	return names
}

// Coordinates parses Location. ok is false when the post has no location.
func (p FlowerPost) Coordinates() (ll LatLng, ok bool, err error) {
	if strings.TrimSpace(p.Location) == "" {
		return LatLng{}, false, nil
	}
	ll, err = ParseLocation(p.Location)
	if err != nil {
		return LatLng{}, false, err
	}
	return ll, true, nil
}

// LatLng is a parsed "lat,lng" location. Map rendering only ever receives a
// LatLng, never the raw string.
type LatLng struct {
	Lat float64
	Lng float64
}

func (ll LatLng) String() string {
	return strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(ll.Lng, 'f', -1, 64)
}

var ErrInvalidLocation = errors.New(`location must be "lat,lng"`)

// ParseLocation parses "lat,lng" into two finite numbers.
func ParseLocation(s string) (LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: got %q", ErrInvalidLocation, s)
	}
	lat, err := parseFinite(parts[0])
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: latitude %q", ErrInvalidLocation, parts[0])
	}
	lng, err := parseFinite(parts[1])
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: longitude %q", ErrInvalidLocation, parts[1])
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	return f, nil
}

// UploadResponse is the body of POST /flowers/upload.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}
