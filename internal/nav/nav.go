// Package nav names the screens of the FloraBase front-end. Controllers
// report where the user should go next as a Route; a view decides how to get
// there (the terminal front-end prints the command that opens the screen).
package nav

import "strings"

type Route string

const (
	None         Route = ""
	Back         Route = "back" // return to the previous screen
	Home         Route = "/"
	Flowers      Route = "/flowers"
	Login        Route = "/login"
	Register     Route = "/register"
	Profile      Route = "/profile"
	UpdateProf   Route = "/update-profile"
	CreatePost   Route = "/create-post"
	EditPosts    Route = "/edit-post"
	AdminBoard   Route = "/admin/dashboard"
	flowerPrefix       = "/flower/"
	postPrefix         = "/flower/mongodb/"
	updatePrefix       = "/update-post/"
)

// Flower is the detail screen of a catalog flower.
func Flower(id string) Route { return Route(flowerPrefix + id) }

// Post is the detail screen of a user-submitted flower post.
func Post(id string) Route { return Route(postPrefix + id) }

// UpdatePost is the edit form of a post.
func UpdatePost(id string) Route { return Route(updatePrefix + id) }

// IsProtected reports whether r needs a logged-in user.
func (r Route) IsProtected() bool {
	switch r {
	case Profile, UpdateProf, CreatePost, EditPosts, AdminBoard:
		return true
	}
	return strings.HasPrefix(string(r), postPrefix) || strings.HasPrefix(string(r), updatePrefix)
}

func (r Route) String() string {
	if r == None {
		return "(stay)"
	}
	return string(r)
}
