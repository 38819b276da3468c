// Package model defines the data structures exchanged with the FloraBase backend.
// The backend owns every record; the client only holds cached copies.
package model

import "encoding/json"

// User is a FloraBase account as returned by /users/me and /admin/users.
//
// The backend stores users in MongoDB, so identifiers arrive as "_id".
// UnmarshalJSON also accepts "id" so fixtures and other tooling can use the
// plainer spelling.
type User struct {
	ID             string `json:"_id,omitempty"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"` // hosted URL, may be empty
	IsAdmin        bool   `json:"isAdmin"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	switch {
	case u.Firstname == "":
		return u.Lastname
	case u.Lastname == "":
		return u.Firstname
	}
	return u.Firstname + " " + u.Lastname
}

// PlaceholderAvatar is shown for admins and for users without a picture.
const PlaceholderAvatar = "https://via.placeholder.com/100"

// Avatar returns the image the navbar shows for u.
func (u User) Avatar() string {
	if u.IsAdmin || u.ProfilePicture == "" {
		return PlaceholderAvatar
	}
	return u.ProfilePicture
}

// AuthResponse is the body of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
