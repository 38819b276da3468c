package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    LatLng
		wantErr bool
	}{
		{name: "plain", in: "43.65,-79.38", want: LatLng{Lat: 43.65, Lng: -79.38}},
		{name: "spaces", in: " 45.5 , -73.56 ", want: LatLng{Lat: 45.5, Lng: -73.56}},
		{name: "single number", in: "43.65", wantErr: true},
		{name: "three parts", in: "1,2,3", wantErr: true},
		{name: "not a number", in: "north,west", wantErr: true},
		{name: "NaN", in: "NaN,1", wantErr: true},
		{name: "infinite", in: "1,Inf", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidLocation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlowerPostCoordinates(t *testing.T) {
	_, ok, err := FlowerPost{}.Coordinates()
	assert.NoError(t, err)
	assert.False(t, ok, "no location means no coordinates")

	ll, ok, err := FlowerPost{Location: "10,20"}.Coordinates()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10,20", ll.String())

	_, ok, err = FlowerPost{Location: "somewhere"}.Coordinates()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFlowerPostAcceptsBothIDSpellings(t *testing.T) {
	var mongo, plain FlowerPost
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","common_name":"Trillium"}`), &mongo))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"xyz","common_name":"Bloodroot"}`), &plain))

	assert.Equal(t, "abc", mongo.ID)
	assert.Equal(t, "Trillium", mongo.CommonName)
	assert.Equal(t, "xyz", plain.ID)
}

func TestUserAvatar(t *testing.T) {
	assert.Equal(t, PlaceholderAvatar, User{IsAdmin: true, ProfilePicture: "https://x/me.png"}.Avatar())
	assert.Equal(t, PlaceholderAvatar, User{}.Avatar())
	assert.Equal(t, "https://x/me.png", User{ProfilePicture: "https://x/me.png"}.Avatar())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Firstname: "Ada", Lastname: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{Firstname: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", User{Lastname: "Lovelace"}.FullName())
}

func TestNameRefDecodesStringOrObject(t *testing.T) {
	var list CatalogPage
	err := json.Unmarshal([]byte(`{"data":[
		{"id":1,"common_name":"Bloodroot","family":"Papaveraceae","genus":"Sanguinaria"},
		{"id":2,"scientific_name":"Trillium grandiflorum","family":{"name":"Melanthiaceae"},"genus":null}
	]}`), &list)
	require.NoError(t, err)
	require.Len(t, list.Data, 2)

	assert.Equal(t, "Papaveraceae", list.Data[0].Family.Name)
	assert.Equal(t, "Sanguinaria", list.Data[0].Genus.Name)
	assert.Equal(t, "Melanthiaceae", list.Data[1].Family.Name)
	assert.Equal(t, "", list.Data[1].Genus.Name)
	assert.Equal(t, "Trillium grandiflorum", list.Data[1].DisplayName())
}
