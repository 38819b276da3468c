package cli

import (
	"net/url"

	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

// MapsLink returns a link that shows ll on a map. With an API key it is an
// embeddable place view; without one, a plain search link anyone can open.
func MapsLink(ll model.LatLng, apiKey string) string {
	if apiKey == "" {
		q := url.Values{"api": {"1"}, "query": {ll.String()}}
		return "https://www.google.com/maps/search/?" + q.Encode()
	}
	q := url.Values{"key": {apiKey}, "q": {ll.String()}, "zoom": {"15"}}
	return "https://www.google.com/maps/embed/v1/place?" + q.Encode()
}
